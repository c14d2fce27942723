package user

import (
	"time"

	"storefront-be/internal/utils"
)

type Role string

const (
	RoleUser  Role = utils.RoleUser
	RoleAdmin Role = utils.RoleAdmin
)

type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register and login: the signed token and the
// user it was issued for.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
