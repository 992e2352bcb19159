package domain

import (
	"context"
	"time"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	// FindByEmail 查不到返回 (nil, nil)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
