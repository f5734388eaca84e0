package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
	RoleWaiter  = "waiter"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:100;not null" json:"-"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Role     string `gorm:"size:20;not null;default:'waiter'" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
