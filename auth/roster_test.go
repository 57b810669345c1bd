package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAdmin(t *testing.T) {
	r := NewRoster([]int64{1797890079, 42})

	assert.True(t, r.IsAdmin(1797890079))
	assert.True(t, r.IsAdmin(42))
	assert.False(t, r.IsAdmin(7))
	assert.Equal(t, 2, r.Size())
}

func TestRequireAdmin(t *testing.T) {
	r := NewRoster([]int64{42})

	require.NoError(t, r.RequireAdmin(42))

	err := r.RequireAdmin(7)
	var denied *NotAuthorizedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, int64(7), denied.UserID)
	assert.Equal(t, "NOT_AUTHORIZED", denied.Code())
}

func TestNonPositiveIDsIgnored(t *testing.T) {
	r := NewRoster([]int64{0, -5, 42})

	assert.Equal(t, 1, r.Size())
	assert.False(t, r.IsAdmin(0))
	assert.False(t, r.IsAdmin(-5))
}
