package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
	"github.com/kmarfadi/munasaba-backend/internal/dto"
	"github.com/kmarfadi/munasaba-backend/pkg/middleware"
)

const testSecret = "test-secret"

func newAuthService(t *testing.T) (*authService, *fixture) {
	t.Helper()
	f := newFixture(t)
	svc := NewAuthService(f.users, AuthConfig{
		Secret:         testSecret,
		Issuer:         "munasaba",
		AccessTokenTTL: time.Hour,
		BcryptCost:     bcrypt.MinCost,
	}).(*authService)
	return svc, f
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:     "Ada@Example.com",
		Password:  "password123",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
}

func TestRegister(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, domain.RoleMember, resp.User.Role)

	claims, err := middleware.ParseToken(resp.AccessToken, &middleware.JWTConfig{Secret: testSecret, Issuer: "munasaba"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.NotNil(t, claims.IssuedAt)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.Email = "ada@example.com"
	_, err = svc.Register(ctx, req)
	assert.True(t, errors.Is(err, ErrEmailAlreadyExists))
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestRegister_IgnoresPrivilegeFields(t *testing.T) {
	svc, f := newAuthService(t)
	var req dto.RegisterRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"email": "mallory@example.com",
		"password": "password123",
		"firstName": "Mallory",
		"lastName": "Doe",
		"organizationId": "7f1c7c1e-3c55-4a8a-9b0b-6c2f0c4f9a11",
		"role": "owner"
	}`), &req))

	resp, err := svc.Register(context.Background(), &req)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, resp.User.Role)
	assert.Nil(t, resp.User.OrganizationID)

	stored, err := f.users.GetByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, stored.Role)
	assert.Nil(t, stored.OrganizationID)
}

func TestRegister_PasswordIsHashed(t *testing.T) {
	svc, f := newAuthService(t)
	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	stored, err := f.users.GetByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid credentials", "ada@example.com", "password123", nil},
		{"email is case-insensitive", "ADA@example.com", "password123", nil},
		{"wrong password", "ada@example.com", "wrong", ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "password123", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newAuthService(t)
			ctx := context.Background()
			_, err := svc.Register(ctx, registerRequest())
			require.NoError(t, err)

			resp, err := svc.Login(ctx, &dto.LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.True(t, errors.Is(err, domain.ErrUnauthorized))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, resp.AccessToken)
		})
	}
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, f := newAuthService(t)
	ctx := context.Background()
	resp, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	f.db.mu.Lock()
	f.db.users[resp.User.ID].IsActive = false
	f.db.mu.Unlock()

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "password123"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = svc.Refresh(ctx, resp.User.ID)
	assert.True(t, errors.Is(err, ErrInactiveUser))
}

func TestRefreshAndProfile(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	registered, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	profile, err := svc.Profile(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)

	_, err = svc.Profile(ctx, "missing")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}
