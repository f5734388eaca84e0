package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"adisyo-api/config"
	"adisyo-api/controllers"
	"adisyo-api/logger"
	"adisyo-api/middlewares"
	"adisyo-api/models"
	"adisyo-api/printing"
	"adisyo-api/seeders"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type api struct {
	t       *testing.T
	engine  *gin.Engine
	printed *[]string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.SetDefault(logger.Discard())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	require.NoError(t, seeders.Seed(db))

	prevDB, prevApp, prevTransport := config.DB, config.App, controllers.Transport
	config.DB = db
	config.App = config.Default()

	var mu sync.Mutex
	printed := []string{}
	controllers.Transport = printing.TransportFunc(func(_ context.Context, p models.Printer, content string) error {
		mu.Lock()
		defer mu.Unlock()
		printed = append(printed, p.Name)
		return nil
	})

	t.Cleanup(func() {
		config.DB, config.App, controllers.Transport = prevDB, prevApp, prevTransport
		sqlDB.Close()
	})

	r := gin.New()
	r.Use(middlewares.RequestID())
	RegisterRoutes(r)
	return &api{t: t, engine: r, printed: &printed}
}

func (a *api) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (a *api) login(username, password string) string {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(a.t, data.Token)
	return data.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealthIsPublic(t *testing.T) {
	a := newAPI(t)
	w, env := a.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	data := decode[map[string]string](t, env.Data)
	assert.Equal(t, "running", data["status"])
	assert.Equal(t, config.Default().App.Version, data["version"])
}

func TestSessionCookieSecureInProduction(t *testing.T) {
	a := newAPI(t)
	config.App.App.Environment = "production"
	config.App.App.Version = "2.1.0"

	w, _ := a.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)
	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "adisyo_session" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.Secure)

	_, env := a.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, "2.1.0", decode[map[string]string](t, env.Data)["version"])
}

func TestAuthGating(t *testing.T) {
	a := newAPI(t)

	w, env := a.do(http.MethodGet, "/api/tables", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	w, _ = a.do(http.MethodGet, "/api/tables", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	waiter := a.login("garson1", "1234")
	w, _ = a.do(http.MethodGet, "/api/tables", waiter, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = a.do(http.MethodGet, "/api/users", waiter, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "insufficient permissions", env.Error)

	w, _ = a.do(http.MethodGet, "/api/reports/daily", waiter, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := a.login("admin", "admin123")
	w, env = a.do(http.MethodGet, "/api/users", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	users := decode[[]map[string]interface{}](t, env.Data)
	assert.Len(t, users, 3)
	for _, u := range users {
		assert.NotContains(t, u, "password")
	}
}

func TestLoginFailureAndSessionCookie(t *testing.T) {
	a := newAPI(t)

	w, env := a.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	w, _ = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)
	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "adisyo_session" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.False(t, session.Secure)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var me envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	user := decode[map[string]interface{}](t, me.Data)
	assert.Equal(t, "admin", user["username"])

	_, anon := a.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.False(t, anon.Success)
	assert.Contains(t, []string{"", "null"}, string(anon.Data))
}

func TestTableToPaymentFlow(t *testing.T) {
	a := newAPI(t)
	token := a.login("garson1", "1234")

	w, env := a.do(http.MethodPost, "/api/tables/1/open", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	order := decode[models.Order](t, env.Data)
	assert.Equal(t, 10.0, order.TaxRate)

	openPath := "/api/orders/" + itoa(order.ID)
	w, env = a.do(http.MethodPost, openPath+"/items", token, gin.H{"menu_item_id": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	order = decode[models.Order](t, env.Data)
	assert.Equal(t, 440.0, order.Subtotal)
	assert.Equal(t, 484.0, order.Total)

	w, env = a.do(http.MethodGet, "/api/tables/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	table := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, models.TableOccupied, table["status"])
	assert.NotNil(t, table["order"])

	w, env = a.do(http.MethodPost, openPath+"/payment", token, gin.H{"payment_method": "cash"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, 484.0, paid["total"])
	assert.Equal(t, "paid", paid["status"])
	assert.Equal(t, "Masa 1", paid["table_name"])

	w, env = a.do(http.MethodPost, openPath+"/payment", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)

	w, _ = a.do(http.MethodPost, openPath+"/items", token, gin.H{"menu_item_id": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrderErrorsMapToStatus(t *testing.T) {
	a := newAPI(t)
	token := a.login("garson1", "1234")

	w, _ := a.do(http.MethodGet, "/api/orders/999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = a.do(http.MethodGet, "/api/orders/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, env := a.do(http.MethodPost, "/api/tables/2/open", token, nil)
	order := decode[models.Order](t, env.Data)

	w, _ = a.do(http.MethodPost, "/api/orders/"+itoa(order.ID)+"/items", token, gin.H{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code, "menu_item_id is required")

	w, _ = a.do(http.MethodPost, "/api/orders/"+itoa(order.ID)+"/items", token, gin.H{"menu_item_id": 1, "quantity": -2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(http.MethodPost, "/api/orders/"+itoa(order.ID)+"/payment", token, gin.H{"payment_method": "bitcoin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPrintFlow(t *testing.T) {
	a := newAPI(t)
	admin := a.login("admin", "admin123")

	w, env := a.do(http.MethodPost, "/api/printers", admin, gin.H{"name": "Mutfak", "type": "console"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	printer := decode[models.Printer](t, env.Data)

	w, env = a.do(http.MethodPost, "/api/stations", admin, gin.H{"name": "Kitchen", "printer_id": printer.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	station := decode[models.Station](t, env.Data)

	w, _ = a.do(http.MethodPut, "/api/menu/items/1", admin, gin.H{"station_id": station.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, env = a.do(http.MethodPost, "/api/tables/3/open", admin, nil)
	order := decode[models.Order](t, env.Data)
	path := "/api/orders/" + itoa(order.ID)
	a.do(http.MethodPost, path+"/items", admin, gin.H{"menu_item_id": 1})
	a.do(http.MethodPost, path+"/items", admin, gin.H{"menu_item_id": 2})

	w, env = a.do(http.MethodPost, path+"/print", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, env.Success)
	assert.Equal(t, "1 station tickets printed", env.Message)
	result := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, []interface{}{"Urfa Kebap"}, result["unrouted_items"])
	assert.Equal(t, []string{"Mutfak"}, *a.printed)

	w, _ = a.do(http.MethodPut, "/api/settings", admin, gin.H{"print_enabled": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = a.do(http.MethodPost, path+"/print", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "printing disabled", env.Message)

	w, env = a.do(http.MethodPost, "/api/print/test", admin, gin.H{"printer_id": printer.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "test slip sent", env.Message)
}

func TestMenuAndSettingsRoutes(t *testing.T) {
	a := newAPI(t)
	waiter := a.login("garson2", "1234")

	w, env := a.do(http.MethodGet, "/api/menu", waiter, nil)
	require.Equal(t, http.StatusOK, w.Code)
	menu := decode[map[string][]map[string]interface{}](t, env.Data)
	assert.Len(t, menu, 4)
	require.NotEmpty(t, menu["main"])
	assert.Equal(t, "Adana Kebap", menu["main"][0]["name"])

	w, _ = a.do(http.MethodPost, "/api/menu/items", waiter, gin.H{"name": "Gazoz", "price": 35})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = a.do(http.MethodGet, "/api/settings", waiter, nil)
	require.Equal(t, http.StatusOK, w.Code)
	settings := decode[map[string]string](t, env.Data)
	assert.Equal(t, "10", settings["tax_rate"])
	assert.Equal(t, "true", settings["print_enabled"])

	w, _ = a.do(http.MethodPut, "/api/settings", waiter, gin.H{"tax_rate": 8})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReportsForCashierRole(t *testing.T) {
	a := newAPI(t)
	admin := a.login("admin", "admin123")

	w, _ := a.do(http.MethodPost, "/api/users", admin, gin.H{"username": "kasa", "password": "kasa1", "name": "Kasa", "role": "cashier"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cashier := a.login("kasa", "kasa1")

	w, env := a.do(http.MethodGet, "/api/reports/daily?date=2026-01-15", cashier, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, "2026-01-15", report["date"])
	assert.Equal(t, 0.0, report["total_revenue"])
	assert.Equal(t, []interface{}{}, report["top_items"])

	w, _ = a.do(http.MethodGet, "/api/reports/daily?date=15.01.2026", cashier, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(http.MethodGet, "/api/reports/orders", cashier, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
