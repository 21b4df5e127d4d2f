package domain

import "time"

// BloodDonor is the domain model for registered donors.
type BloodDonor struct {
	ID           int64
	DNI          string
	FirstName    string
	LastName     string
	Gender       string
	BloodType    string
	Email        string
	PhoneNumber  string
	DateOfBirth  *time.Time
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name for display.
func (d *BloodDonor) FullName() string {
	return d.FirstName + " " + d.LastName
}
