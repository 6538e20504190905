package domain

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // argon2id PHC string, or bcrypt for imported accounts
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductRef is the short form of a product listed under its owner.
type ProductRef struct {
	ID    string
	Title string
}

type UserWithProducts struct {
	User
	Products []ProductRef
}
