package payment

import (
	"context"
	"sort"
	"sync"
)

type paymentRepository struct {
	mu       sync.RWMutex
	payments []Payment
}

func NewPaymentRepository() Repository {
	return &paymentRepository{}
}

func (repo *paymentRepository) Store(_ context.Context, p *Payment) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.payments = append(repo.payments, *p)
	return nil
}

func (repo *paymentRepository) FindLatest(_ context.Context, count int, skip int) ([]Payment, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	sorted := make([]Payment, len(repo.payments))
	copy(sorted, repo.payments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if skip >= len(sorted) {
		return []Payment{}, nil
	}
	sorted = sorted[skip:]
	if count < len(sorted) {
		sorted = sorted[:count]
	}
	return sorted, nil
}
