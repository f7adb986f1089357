package auth

import (
	"loanrisk-backend/internal/domain/audit"
	"loanrisk-backend/internal/domain/user"
)

// Identity is the authenticated caller handed to the use cases.
type Identity struct {
	ID       uint64
	UserID   string
	Email    string
	FullName string
	Role     user.Role
}

func IdentityOf(u *user.User) Identity {
	return Identity{ID: u.ID, UserID: u.UserID, Email: u.Email, FullName: u.FullName, Role: u.Role}
}

func (i Identity) IsAdmin() bool { return i.Role == user.RoleAdmin }

// Activity starts an activities record attributed to i.
func (i Identity) Activity(action string) audit.Record {
	return audit.Record{
		"user_id":   i.UserID,
		"email":     i.Email,
		"full_name": i.FullName,
		"role":      string(i.Role),
		"action":    action,
	}
}
