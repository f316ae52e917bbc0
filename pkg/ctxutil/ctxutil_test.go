package ctxutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
)

func TestUserFromCtx_Missing(t *testing.T) {
	u, ok := UserFromCtx(context.Background())
	assert.False(t, ok)
	assert.Nil(t, u)
}

func TestUserFromCtx_RoundTrip(t *testing.T) {
	want := &domain.User{Email: "amy@example.com", Role: domain.RoleUser}
	ctx := WithUser(context.Background(), want)

	got, ok := UserFromCtx(ctx)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestIsAdminCtx(t *testing.T) {
	assert.False(t, IsAdminCtx(context.Background()))

	user := WithUser(context.Background(), &domain.User{Email: "u@example.com", Role: domain.RoleUser})
	assert.False(t, IsAdminCtx(user))

	admin := WithUser(context.Background(), &domain.User{Email: "a@example.com", Role: domain.RoleAdmin})
	assert.True(t, IsAdminCtx(admin))
}

func TestRequestIDFromCtx(t *testing.T) {
	assert.Empty(t, RequestIDFromCtx(context.Background()))

	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromCtx(ctx))
}
