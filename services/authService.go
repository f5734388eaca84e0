package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"adisyo-api/dtos"
	"adisyo-api/models"
	"adisyo-api/utils/token"
)

type AuthService interface {
	Login(ctx context.Context, input dtos.LoginInput) (*dtos.AuthResponse, error)
	CurrentUser(ctx context.Context, userID uint) (*models.User, error)
}

type authService struct {
	db     *gorm.DB
	secret string
	ttl    time.Duration
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) AuthService {
	return &authService{db: db, secret: secret, ttl: ttl}
}

func (s *authService) Login(ctx context.Context, input dtos.LoginInput) (*dtos.AuthResponse, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", input.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tok, err := token.GenerateToken(user.ID, user.Role, s.secret, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dtos.AuthResponse{Token: tok, User: &user}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, lookupErr(err, "user")
	}
	return &user, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
