package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registre-medical/registry-api/internal/domain"
)

func TestCurrentCallerID(t *testing.T) {
	_, err := CurrentCallerID(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	ctx := WithPrincipal(context.Background(), &Principal{UserID: 17, Role: domain.RoleEmployer})
	id, err := CurrentCallerID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)

	_, err = CurrentCallerID(WithPrincipal(context.Background(), nil))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPrincipalFromContextIsScoped(t *testing.T) {
	parent := context.Background()
	child := WithPrincipal(parent, &Principal{UserID: 1})

	_, ok := PrincipalFromContext(parent)
	assert.False(t, ok)
	p, ok := PrincipalFromContext(child)
	require.True(t, ok)
	assert.Equal(t, int64(1), p.UserID)
}
