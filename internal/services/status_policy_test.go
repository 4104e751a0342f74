// internal/services/status_policy_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/agrimarket-backend/internal/config"
	"github.com/javajoker/agrimarket-backend/internal/models"
)

func TestLenientPolicy(t *testing.T) {
	p := LenientPolicy{}

	for _, from := range []models.RequestStatus{
		models.RequestStatusPending,
		models.RequestStatusConfirmed,
		models.RequestStatusRejected,
		models.RequestStatusShipped,
	} {
		assert.True(t, p.Allow(from, models.RequestStatusConfirmed), from)
		assert.True(t, p.Allow(from, models.RequestStatusRejected), from)
		assert.True(t, p.Allow(from, models.RequestStatusShipped), from)
		assert.False(t, p.Allow(from, models.RequestStatusPending), from)
		assert.False(t, p.Allow(from, "Lost"), from)
	}
}

func TestForwardOnlyPolicy(t *testing.T) {
	p := ForwardOnlyPolicy{}

	tests := []struct {
		from, to models.RequestStatus
		allowed  bool
	}{
		{models.RequestStatusPending, models.RequestStatusConfirmed, true},
		{models.RequestStatusPending, models.RequestStatusRejected, true},
		{models.RequestStatusConfirmed, models.RequestStatusShipped, true},
		{models.RequestStatusPending, models.RequestStatusShipped, false},
		{models.RequestStatusRejected, models.RequestStatusConfirmed, false},
		{models.RequestStatusShipped, models.RequestStatusConfirmed, false},
		{models.RequestStatusConfirmed, models.RequestStatusConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, p.Allow(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestNewStatusPolicy(t *testing.T) {
	p, err := NewStatusPolicy(config.StatusPolicyLenient)
	require.NoError(t, err)
	assert.IsType(t, LenientPolicy{}, p)

	p, err = NewStatusPolicy(config.StatusPolicyForwardOnly)
	require.NoError(t, err)
	assert.IsType(t, ForwardOnlyPolicy{}, p)

	_, err = NewStatusPolicy("strict")
	assert.Error(t, err)
}
