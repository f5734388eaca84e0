package dtos

import "adisyo-api/models"

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type CreateUserInput struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,min=4"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin cashier waiter"`
}
