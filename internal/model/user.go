// File: internal/model/user.go
package model

import "time"

// User is one registered account. PasswordHash holds the bcrypt hash, never the plaintext.
type User struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
