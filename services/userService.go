package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"adisyo-api/dtos"
	"adisyo-api/models"
)

type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, input dtos.CreateUserInput) (*models.User, error)
	Delete(ctx context.Context, id uint, actingUserID *uint) error
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

func (s *userService) Create(ctx context.Context, input dtos.CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, invalid("username is required")
	}
	role := input.Role
	if role == "" {
		role = models.RoleWaiter
	}

	db := s.db.WithContext(ctx)
	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, invalid("username %q is taken", username)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username: username,
		Password: hash,
		Name:     strings.TrimSpace(input.Name),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Delete removes a user. Users cannot delete themselves.
func (s *userService) Delete(ctx context.Context, id uint, actingUserID *uint) error {
	if actingUserID != nil && *actingUserID == id {
		return invalid("you cannot delete your own account")
	}
	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return lookupErr(err, "user")
	}
	if err := db.Delete(&user).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
