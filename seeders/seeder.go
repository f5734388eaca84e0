package seeders

import (
	"fmt"

	"gorm.io/gorm"

	"adisyo-api/logger"
	"adisyo-api/models"
	"adisyo-api/services"
)

type seedUser struct {
	Username, Password, Name, Role string
}

var defaultUsers = []seedUser{
	{"admin", "admin123", "Admin", models.RoleAdmin},
	{"garson2", "1234", "Ahmet", models.RoleWaiter},
	{"garson1", "1234", "Mehmet", models.RoleWaiter},
}

var defaultCategories = []models.Category{
	{Name: "Ana Yemekler", Key: "main", Icon: "ph-hamburger"},
	{Name: "Icecekler", Key: "drinks", Icon: "ph-coffee"},
	{Name: "Tatlilar", Key: "desserts", Icon: "ph-cookie"},
	{Name: "Mezeler", Key: "appetizers", Icon: "ph-bowl-food"},
}

type seedItem struct {
	Name     string
	Price    float64
	Category string
}

var defaultMenu = []seedItem{
	{"Adana Kebap", 220, "main"},
	{"Urfa Kebap", 200, "main"},
	{"Karisik Izgara", 450, "main"},
	{"Tavuk Sis", 180, "main"},
	{"Lahmacun", 80, "main"},
	{"Pide (Kasarli)", 120, "main"},
	{"Pide (Kiymali)", 140, "main"},
	{"Iskender", 280, "main"},
	{"Ayran", 30, "drinks"},
	{"Kola", 40, "drinks"},
	{"Salgam", 35, "drinks"},
	{"Su", 15, "drinks"},
	{"Fanta", 40, "drinks"},
	{"Sprite", 40, "drinks"},
	{"Cay", 20, "drinks"},
	{"Turk Kahvesi", 45, "drinks"},
	{"Kunefe", 150, "desserts"},
	{"Baklava", 120, "desserts"},
	{"Sutlac", 70, "desserts"},
	{"Kadayif", 130, "desserts"},
	{"Mercimek Corbasi", 60, "appetizers"},
	{"Ezme", 50, "appetizers"},
	{"Humus", 55, "appetizers"},
	{"Cacik", 45, "appetizers"},
	{"Patlican Salatasi", 60, "appetizers"},
}

var defaultSettings = []models.Setting{
	{Key: models.SettingRestaurantName, Value: "Adisyo Restaurant", Version: 1},
	{Key: models.SettingCurrency, Value: "TL", Version: 1},
	{Key: models.SettingTaxRate, Value: "10", Version: 1},
}

const defaultTableCount = 12

// Seed fills every empty reference table with first-run data.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			name string
			fn   func(*gorm.DB) (int, error)
		}{
			{"users", seedUsers},
			{"tables", seedTables},
			{"menu", seedMenu},
			{"settings", seedSettings},
		}
		for _, step := range steps {
			n, err := step.fn(tx)
			if err != nil {
				return fmt.Errorf("seed %s: %w", step.name, err)
			}
			if n > 0 {
				logger.L().Info("seed", "seeded "+step.name, "", map[string]interface{}{"rows": n})
			}
		}
		return nil
	})
}

func isEmpty(tx *gorm.DB, model interface{}) (bool, error) {
	var count int64
	if err := tx.Model(model).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func seedUsers(tx *gorm.DB) (int, error) {
	empty, err := isEmpty(tx, &models.User{})
	if err != nil || !empty {
		return 0, err
	}
	users := make([]models.User, 0, len(defaultUsers))
	for _, u := range defaultUsers {
		hash, err := services.HashPassword(u.Password)
		if err != nil {
			return 0, err
		}
		users = append(users, models.User{Username: u.Username, Password: hash, Name: u.Name, Role: u.Role})
	}
	return len(users), tx.Create(&users).Error
}

func seedTables(tx *gorm.DB) (int, error) {
	empty, err := isEmpty(tx, &models.Table{})
	if err != nil || !empty {
		return 0, err
	}
	tables := make([]models.Table, 0, defaultTableCount)
	for i := 1; i <= defaultTableCount; i++ {
		tables = append(tables, models.Table{
			Name:     fmt.Sprintf("Masa %d", i),
			Capacity: 4,
			Status:   models.TableAvailable,
		})
	}
	return len(tables), tx.Create(&tables).Error
}

func seedMenu(tx *gorm.DB) (int, error) {
	empty, err := isEmpty(tx, &models.Category{})
	if err != nil || !empty {
		return 0, err
	}
	categories := make([]models.Category, len(defaultCategories))
	copy(categories, defaultCategories)
	if err := tx.Create(&categories).Error; err != nil {
		return 0, err
	}
	ids := make(map[string]uint, len(categories))
	for _, c := range categories {
		ids[c.Key] = c.ID
	}

	items := make([]models.MenuItem, 0, len(defaultMenu))
	for _, m := range defaultMenu {
		categoryID := ids[m.Category]
		items = append(items, models.MenuItem{
			Name:       m.Name,
			Price:      m.Price,
			CategoryID: &categoryID,
			Available:  true,
		})
	}
	return len(categories) + len(items), tx.Create(&items).Error
}

func seedSettings(tx *gorm.DB) (int, error) {
	empty, err := isEmpty(tx, &models.Setting{})
	if err != nil || !empty {
		return 0, err
	}
	settings := make([]models.Setting, len(defaultSettings))
	copy(settings, defaultSettings)
	return len(settings), tx.Create(&settings).Error
}
