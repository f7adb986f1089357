package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"loanrisk-backend/internal/auth"
	"loanrisk-backend/internal/domain/audit"
	"loanrisk-backend/internal/domain/user"
	"loanrisk-backend/pkg/id"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAdminSignupDisabled = errors.New("admin self-registration is disabled")
	ErrInvalidRole         = errors.New("invalid role")
)

type Usecase struct {
	users            user.Repository
	tokens           *auth.TokenManager
	audit            audit.Sink
	log              *zap.Logger
	allowAdminSignup bool
	hashCost         int
}

func NewUsecase(users user.Repository, tokens *auth.TokenManager, sink audit.Sink, log *zap.Logger, allowAdminSignup bool) *Usecase {
	if sink == nil {
		sink = audit.Nop
	}
	return &Usecase{
		users:            users,
		tokens:           tokens,
		audit:            sink,
		log:              log,
		allowAdminSignup: allowAdminSignup,
		hashCost:         bcrypt.DefaultCost,
	}
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	role := in.Role
	if role == "" {
		role = user.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, in.Role)
	}
	if role == user.RoleAdmin && !u.allowAdminSignup {
		return nil, ErrAdminSignupDisabled
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	usr := &user.User{
		UserID:       id.NewID32(),
		FullName:     strings.TrimSpace(in.FullName),
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, err
	}

	u.audit.Append(ctx, audit.CollUsers, audit.Record{
		"user_id":   usr.UserID,
		"email":     usr.Email,
		"full_name": usr.FullName,
		"role":      string(usr.Role),
		"action":    audit.ActionRegistered,
	})
	u.log.Info("user registered", zap.String("user_id", usr.UserID), zap.String("role", string(usr.Role)))

	dto := toUserDTO(usr)
	return &dto, nil
}

func (u *Usecase) Login(ctx context.Context, email, password string) (*TokenDTO, error) {
	usr, err := u.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := u.tokens.Generate(usr)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	u.audit.Append(ctx, audit.CollActivities, auth.IdentityOf(usr).Activity(audit.ActionLogin))

	return &TokenDTO{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(u.tokens.TTL().Seconds()),
		User:        toUserDTO(usr),
	}, nil
}

// Logout only records the event; tokens are stateless and expire on
// their own.
func (u *Usecase) Logout(ctx context.Context, caller auth.Identity) {
	u.audit.Append(ctx, audit.CollActivities, caller.Activity(audit.ActionLogout))
}

// Identify resolves a bearer token to a stored user. A token whose user no
// longer exists is rejected.
func (u *Usecase) Identify(ctx context.Context, token string) (auth.Identity, error) {
	claims, err := u.tokens.Parse(token)
	if err != nil {
		return auth.Identity{}, err
	}
	usr, err := u.users.GetByUserID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return auth.Identity{}, fmt.Errorf("%w: unknown subject", auth.ErrInvalidToken)
		}
		return auth.Identity{}, fmt.Errorf("load user: %w", err)
	}
	return auth.IdentityOf(usr), nil
}

// DeleteUser removes a user together with all of their loan applications.
func (u *Usecase) DeleteUser(ctx context.Context, admin auth.Identity, userID string) error {
	if err := u.users.Delete(ctx, userID); err != nil {
		return err
	}
	rec := admin.Activity(audit.ActionUserDeleted)
	rec["details"] = audit.Record{"deleted_user_id": userID}
	u.audit.Append(ctx, audit.CollActivities, rec)
	u.log.Info("user deleted", zap.String("user_id", userID), zap.String("by", admin.UserID))
	return nil
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
