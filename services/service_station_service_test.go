package services

import (
	"context"
	"testing"

	"github.com/kendall-kelly/servicemen-api/models"
	"github.com/kendall-kelly/servicemen-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceStationService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	service := NewServiceStationService(db)

	stations, err := service.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, stations)

	south := &models.ServiceStation{Name: "South", Address: "12 Main St"}
	north := &models.ServiceStation{Name: "North", PhoneNumber: "02112345678"}
	require.NoError(t, service.Create(ctx, south))
	require.NoError(t, service.Create(ctx, north))

	stations, err = service.List(ctx)
	require.NoError(t, err)
	require.Len(t, stations, 2)
	assert.Equal(t, "North", stations[0].Name)
	assert.Equal(t, "South", stations[1].Name)

	found, err := service.FindByID(ctx, south.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 Main St", found.Address)

	_, err = service.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrServiceStationNotFound)
}
