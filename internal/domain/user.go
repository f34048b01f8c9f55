package domain

import "time"

// User represents an application user. Every account, transaction and
// recurring belongs to exactly one user; there is no sharing.
type User struct {
	ID             string
	Username       string
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
