package domain

import "time"

// User is a registered account. ID is the decimal form of a sequential number
// handed out by the user counter; Email is the lookup key and is not unique.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is what a verified session token says about the caller.
type Identity struct {
	Name  string
	Email string
}
