package models

import (
	"time"
)

type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleArtist UserRole = "artist"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Email             string    `json:"email" gorm:"unique"`
	Password          string    `json:"password,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	Avatar            string    `json:"avatar,omitempty"`
	Role              UserRole  `json:"role" gorm:"type:varchar(20);default:'user';index"`
	IsActive          bool      `json:"is_active" gorm:"default:true"`
	IsProfileComplete bool      `json:"is_profile_complete" gorm:"default:false"`
	Bio               string    `json:"bio,omitempty"`
	City              string    `json:"city,omitempty"`
	Designs           []Design  `json:"designs,omitempty" gorm:"foreignKey:ArtistID"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DisplayName is the name used in notifications and emails.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return "A user"
}
