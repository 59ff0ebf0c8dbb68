package nonconformities

import (
	"context"
	"testing"

	"itsm-desk/core/records"
	"itsm-desk/core/store"

	"github.com/stretchr/testify/require"
)

func TestNonConformityLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemoryCollection(store.NonConformity.Clone), records.Deps{})
	nc, err := m.Create(ctx, "u", Payload{Description: "Missing change ticket", Severity: "high"})
	require.NoError(t, err)
	require.Equal(t, "open", nc.Status)
	require.False(t, nc.CreatedAt.IsZero())

	closed, err := m.Update(ctx, "u", nc.ID, Payload{Description: "Missing change ticket", Severity: "high", Status: "closed", Action: "Retro-approved"})
	require.NoError(t, err)
	require.Equal(t, nc.CreatedAt, closed.CreatedAt)
	require.Equal(t, "closed", closed.Status)

	_, err = m.Create(ctx, "u", Payload{Description: "x", Severity: "critical"})
	require.ErrorIs(t, err, records.ErrInvalid)
}
