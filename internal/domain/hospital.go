package domain

import "time"

// Hospital is the domain model for hospital accounts.
type Hospital struct {
	ID           int64
	Name         string
	Email        string
	Address      string
	City         string
	PhoneNumber  string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
