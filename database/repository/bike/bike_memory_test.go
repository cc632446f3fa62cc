package bikeRepo

import (
	"context"
	"testing"

	"bikereg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBikeRepoLookupIsNormalized(t *testing.T) {
	repo := NewMemoryBikeRepo(DefaultCatalog()...)

	bike, err := repo.GetBySerial(context.Background(), "  stn7736200 ")
	require.NoError(t, err)
	assert.Equal(t, "STN7736200", bike.SerialNumber)
	assert.Equal(t, "Velo Zurich", bike.ShopName)
	assert.False(t, bike.CreatedAt.IsZero())
}

func TestMemoryBikeRepoNotFound(t *testing.T) {
	repo := NewMemoryBikeRepo()

	_, err := repo.GetBySerial(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrBikeNotFound)
}

func TestMemoryBikeRepoUpsertReplaces(t *testing.T) {
	repo := NewMemoryBikeRepo()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.Bike{BikeDetails: models.BikeDetails{SerialNumber: "x1", ShopName: "A"}}))
	require.NoError(t, repo.Upsert(ctx, models.Bike{BikeDetails: models.BikeDetails{SerialNumber: "X1", ShopName: "B"}}))

	bike, err := repo.GetBySerial(ctx, "x1")
	require.NoError(t, err)
	assert.Equal(t, "B", bike.ShopName)
}
