package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"loanrisk-backend/internal/auth"
	"loanrisk-backend/internal/domain/audit"
	"loanrisk-backend/internal/domain/user"
	"loanrisk-backend/internal/testutil/auditmock"
	"loanrisk-backend/internal/testutil/usermock"
)

// memUsers backs a usermock.Repo with a map keyed by email.
func memUsers() (*usermock.Repo, map[string]*user.User) {
	byEmail := map[string]*user.User{}
	var next uint64
	return &usermock.Repo{
		CreateFn: func(_ context.Context, u *user.User) error {
			if _, ok := byEmail[u.Email]; ok {
				return user.ErrEmailTaken
			}
			next++
			u.ID = next
			u.CreatedAt = time.Now().UTC()
			byEmail[u.Email] = u
			return nil
		},
		GetByEmailFn: func(_ context.Context, email string) (*user.User, error) {
			if u, ok := byEmail[email]; ok {
				return u, nil
			}
			return nil, user.ErrNotFound
		},
		GetByUserIDFn: func(_ context.Context, userID string) (*user.User, error) {
			for _, u := range byEmail {
				if u.UserID == userID {
					return u, nil
				}
			}
			return nil, user.ErrNotFound
		},
		DeleteFn: func(_ context.Context, userID string) error {
			for k, u := range byEmail {
				if u.UserID == userID {
					delete(byEmail, k)
					return nil
				}
			}
			return user.ErrNotFound
		},
	}, byEmail
}

func newTestUsecase(t *testing.T, allowAdmin bool) (*Usecase, *auditmock.Sink, map[string]*user.User) {
	t.Helper()
	repo, store := memUsers()
	sink := &auditmock.Sink{}
	tokens := auth.NewTokenManager("test-secret", "loanrisk-test", time.Hour)
	uc := NewUsecase(repo, tokens, sink, zap.NewNop(), allowAdmin)
	uc.hashCost = bcrypt.MinCost
	return uc, sink, store
}

func TestRegister(t *testing.T) {
	uc, sink, store := newTestUsecase(t, true)
	ctx := context.Background()

	dto, err := uc.Register(ctx, RegisterInput{
		FullName: "  Ada Lovelace ",
		Email:    " Ada@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Len(t, dto.UserID, 32)
	assert.Equal(t, "ada@example.com", dto.Email)
	assert.Equal(t, "Ada Lovelace", dto.FullName)
	assert.Equal(t, user.RoleUser, dto.Role)

	stored := store["ada@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	recs := sink.In(audit.CollUsers)
	require.Len(t, recs, 1)
	assert.Equal(t, audit.ActionRegistered, recs[0]["action"])
	assert.Equal(t, dto.UserID, recs[0]["user_id"])

	_, err = uc.Register(ctx, RegisterInput{FullName: "Dup", Email: "ada@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestRegister_Roles(t *testing.T) {
	ctx := context.Background()

	uc, _, _ := newTestUsecase(t, true)
	dto, err := uc.Register(ctx, RegisterInput{FullName: "Root", Email: "root@example.com", Password: "secret1", Role: user.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, dto.Role)

	_, err = uc.Register(ctx, RegisterInput{FullName: "Odd", Email: "odd@example.com", Password: "secret1", Role: "OWNER"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	locked, _, _ := newTestUsecase(t, false)
	_, err = locked.Register(ctx, RegisterInput{FullName: "Root", Email: "root@example.com", Password: "secret1", Role: user.RoleAdmin})
	assert.ErrorIs(t, err, ErrAdminSignupDisabled)
}

func TestLogin(t *testing.T) {
	uc, sink, _ := newTestUsecase(t, true)
	ctx := context.Background()

	reg, err := uc.Register(ctx, RegisterInput{FullName: "Grace", Email: "grace@example.com", Password: "hopper"})
	require.NoError(t, err)

	tok, err := uc.Login(ctx, "GRACE@example.com", "hopper")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, int64(3600), tok.ExpiresIn)
	assert.Equal(t, reg.UserID, tok.User.UserID)
	assert.NotEmpty(t, tok.AccessToken)

	logins := sink.In(audit.CollActivities)
	require.Len(t, logins, 1)
	assert.Equal(t, audit.ActionLogin, logins[0]["action"])
	assert.Equal(t, reg.UserID, logins[0]["user_id"])
	assert.Equal(t, "grace@example.com", logins[0]["email"])
	assert.Equal(t, "Grace", logins[0]["full_name"])
	assert.Equal(t, string(user.RoleUser), logins[0]["role"])

	_, err = uc.Login(ctx, "grace@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = uc.Login(ctx, "nobody@example.com", "hopper")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RepoFailure(t *testing.T) {
	boom := errors.New("db down")
	uc := NewUsecase(&usermock.Repo{
		GetByEmailFn: func(context.Context, string) (*user.User, error) { return nil, boom },
	}, auth.NewTokenManager("s", "i", time.Minute), nil, zap.NewNop(), true)

	_, err := uc.Login(context.Background(), "a@b.c", "x")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestIdentify(t *testing.T) {
	uc, _, _ := newTestUsecase(t, true)
	ctx := context.Background()

	reg, err := uc.Register(ctx, RegisterInput{FullName: "Alan", Email: "alan@example.com", Password: "turing", Role: user.RoleAdmin})
	require.NoError(t, err)
	tok, err := uc.Login(ctx, "alan@example.com", "turing")
	require.NoError(t, err)

	ident, err := uc.Identify(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, ident.UserID)
	assert.True(t, ident.IsAdmin())
	assert.NotZero(t, ident.ID)

	_, err = uc.Identify(ctx, "not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, uc.DeleteUser(ctx, ident, reg.UserID))
	_, err = uc.Identify(ctx, tok.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogoutAndDelete_Audit(t *testing.T) {
	uc, sink, _ := newTestUsecase(t, true)
	ctx := context.Background()
	admin := auth.Identity{UserID: "admin-1", Email: "admin@example.com", FullName: "Ada Admin", Role: user.RoleAdmin}

	uc.Logout(ctx, admin)
	assert.ErrorIs(t, uc.DeleteUser(ctx, admin, "missing"), user.ErrNotFound)

	reg, err := uc.Register(ctx, RegisterInput{FullName: "Bob", Email: "bob@example.com", Password: "builder"})
	require.NoError(t, err)
	require.NoError(t, uc.DeleteUser(ctx, admin, reg.UserID))

	acts := sink.In(audit.CollActivities)
	require.Len(t, acts, 2)
	assert.Equal(t, audit.ActionLogout, acts[0]["action"])
	assert.Equal(t, "admin@example.com", acts[0]["email"])
	assert.Equal(t, "ADMIN", acts[0]["role"])
	assert.Equal(t, audit.ActionUserDeleted, acts[1]["action"])
	assert.Equal(t, audit.Record{"deleted_user_id": reg.UserID}, acts[1]["details"])
}
