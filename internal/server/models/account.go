// Package models contains the account domain types shared by the store,
// service and transport layers.
package models

import "time"

// Account is a stored user record. PasswordHash is never serialized.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the token payload and the redacted summary returned on sign-in.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

func (a *Account) Identity() Identity {
	return Identity{Username: a.Username, Email: a.Email, Role: a.Role}
}

// AccountPatch describes a partial update; nil fields are left untouched.
type AccountPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Role         *Role
}

func (p AccountPatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.PasswordHash == nil && p.Role == nil
}

// Apply copies the set fields of p onto a.
func (p AccountPatch) Apply(a *Account) {
	if p.Username != nil {
		a.Username = *p.Username
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.PasswordHash != nil {
		a.PasswordHash = *p.PasswordHash
	}
	if p.Role != nil {
		a.Role = *p.Role
	}
}
