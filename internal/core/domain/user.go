package domain

import "time"

// User is the core identity record. ID is assigned by the store and is the
// only stable external reference; Email is unique. PasswordHash and
// ConfirmationCode are never serialized into API responses.
type User struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Surname          string    `json:"surname"`
	Age              *int      `json:"age,omitempty"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Confirmed        bool      `json:"confirmed"`
	ConfirmationCode string    `json:"-"`
	Role             Role      `json:"role"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
