package domain

import "time"

// User is a registry account. Email is the token subject.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	LastName     string
	FirstName    string
	Phone        string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
