package account

import (
	"time"

	"loanrisk-backend/internal/domain/user"
)

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     user.Role
}

type UserDTO struct {
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenDTO struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   int64   `json:"expires_in"` // seconds
	User        UserDTO `json:"user"`
}

func toUserDTO(u *user.User) UserDTO {
	return UserDTO{
		UserID:    u.UserID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
