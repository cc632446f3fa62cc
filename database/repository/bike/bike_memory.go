package bikeRepo

import (
	"context"
	"sync"
	"time"

	"bikereg/models"
)

// MemoryBikeRepo keeps the catalog in process memory.
type MemoryBikeRepo struct {
	mu    sync.RWMutex
	bikes map[string]models.Bike
}

func NewMemoryBikeRepo(seed ...models.Bike) *MemoryBikeRepo {
	r := &MemoryBikeRepo{bikes: make(map[string]models.Bike)}
	for _, b := range seed {
		_ = r.Upsert(context.Background(), b)
	}
	return r
}

func (r *MemoryBikeRepo) GetBySerial(_ context.Context, serial string) (*models.Bike, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bike, ok := r.bikes[NormalizeSerial(serial)]
	if !ok {
		return nil, ErrBikeNotFound
	}
	return &bike, nil
}

func (r *MemoryBikeRepo) Upsert(_ context.Context, bike models.Bike) error {
	bike.SerialNumber = NormalizeSerial(bike.SerialNumber)
	if bike.CreatedAt.IsZero() {
		bike.CreatedAt = time.Now()
	}
	r.mu.Lock()
	r.bikes[bike.SerialNumber] = bike
	r.mu.Unlock()
	return nil
}
