package auth

import (
	"context"
)

// AuthService issues tokens for credential logins.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	// Refresh exchanges a valid refresh token for fresh tokens. The old
	// refresh token is revoked.
	Refresh(ctx context.Context, refreshToken string) (LoginResponse, error)

	// Logout revokes the refresh token. Unknown tokens are ignored.
	Logout(ctx context.Context, refreshToken string)
}

// AccessGate answers self-vs-admin questions for the workflow handlers.
// The acting identity is always passed in explicitly; the gate never reads
// ambient session state.
type AccessGate interface {
	// RequireAuthenticated fails with ErrUnauthenticated when userID is
	// empty.
	RequireAuthenticated(ctx context.Context, userID string) (string, error)

	IsAdmin(ctx context.Context, userID string) (bool, error)

	// RequireAdmin fails with ErrUnauthenticated, then with
	// user.ErrAdminPrivilegeRequired.
	RequireAdmin(ctx context.Context, userID string) (string, error)

	// RequireOwnerOrAdmin fails with ErrForbidden unless userID owns the
	// resource or is an administrator.
	RequireOwnerOrAdmin(ctx context.Context, userID string, resourceOwnerID string) error
}
