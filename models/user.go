package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:128" json:"id"` // firebase uid or generated uuid
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `json:"name"`
	Picture      string    `json:"picture"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"` // empty for google accounts
	Provider     string    `json:"provider"`
	Role         Role      `gorm:"type:VARCHAR(20);default:'user'" json:"role"`
	Address      Address   `gorm:"embedded" json:"address"`
	Orders       []Order   `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Address model embedded in User
type Address struct {
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
