package models

import "time"

const (
	RoleAdmin    = "admin"
	RolePengurus = "pengurus"
	RoleWarga    = "warga"
)

// User is a resident of the community.
type User struct {
	ID           int       `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	Role         string    `json:"role"`
	HouseID      *int      `json:"house_id,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
