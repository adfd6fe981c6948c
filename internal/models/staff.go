package models

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Staff is a salon account allowed into the admin dashboard.
// Credentials come from configuration, not from a table.
type Staff struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never send password in JSON
	Role         Role   `json:"role"`
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a password with the staff member's hashed password
func (s *Staff) CheckPassword(password string) bool {
	if s.PasswordHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password))
	return err == nil
}

// Matches reports whether email identifies this account.
func (s *Staff) Matches(email string) bool {
	return strings.EqualFold(strings.TrimSpace(email), s.Email)
}
