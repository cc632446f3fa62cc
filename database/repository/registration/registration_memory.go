package registrationRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bikereg/models"
)

type MemoryRegistrationRepo struct {
	mu   sync.RWMutex
	regs map[string]models.StoredRegistration
}

func NewMemoryRegistrationRepo() *MemoryRegistrationRepo {
	return &MemoryRegistrationRepo{regs: make(map[string]models.StoredRegistration)}
}

func (r *MemoryRegistrationRepo) Create(_ context.Context, reg models.StoredRegistration) error {
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.regs[reg.ID]; exists {
		return fmt.Errorf("registration %s already exists", reg.ID)
	}
	r.regs[reg.ID] = reg
	return nil
}

func (r *MemoryRegistrationRepo) GetByID(_ context.Context, id string) (*models.StoredRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.regs[id]
	if !ok {
		return nil, ErrRegistrationNotFound
	}
	return &reg, nil
}

func (r *MemoryRegistrationRepo) ListBySerial(_ context.Context, serial string) ([]models.StoredRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.StoredRegistration
	for _, reg := range r.regs {
		if reg.Record.SerialNumber == serial {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
