package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landlord-service/internal/models"
)

func TestMemoryStoreCRUD(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	assert.Equal(t, KindMemory, st.Kind())
	assert.False(t, st.Durable())
	assert.True(t, st.TestConnection(ctx))

	created, err := st.CreateProperty(ctx, models.Property{Address: "12 Oak Lane"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	second, err := st.CreateProperty(ctx, models.Property{Address: "77 Birch Rd"})
	require.NoError(t, err)

	props, err := st.FetchProperties(ctx)
	require.NoError(t, err)
	require.Len(t, props, 2)
	// insertion order preserved
	assert.Equal(t, created.ID, props[0].ID)
	assert.Equal(t, second.ID, props[1].ID)

	created.Rent = 1600
	updated, err := st.UpdateProperty(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 1600.0, updated.Rent)

	require.NoError(t, st.DeleteProperty(ctx, second.ID))
	props, err = st.FetchProperties(ctx)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, created.ID, props[0].ID)
}

func TestMemoryStoreUnknownRecords(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	_, err := st.UpdateTenant(ctx, models.Tenant{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, st.DeletePayment(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, st.DeleteRepair(ctx, "missing"), ErrNotFound)
}

func TestMemoryStoreFetchReturnsCopies(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	created, err := st.CreateTenant(ctx, models.Tenant{Name: "Ava Brooks"})
	require.NoError(t, err)

	tenants, err := st.FetchTenants(ctx)
	require.NoError(t, err)
	tenants[0].Name = "mutated"

	fresh, err := st.FetchTenants(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ava Brooks", fresh[0].Name)
	assert.Equal(t, created.ID, fresh[0].ID)
}
