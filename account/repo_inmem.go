package account

import (
	"context"
	"sync"
)

type accountRepository struct {
	mu       sync.RWMutex
	accounts map[ID]*Account
}

func NewAccountRepository() Repository {
	return &accountRepository{accounts: map[ID]*Account{}}
}

func (repo *accountRepository) Store(_ context.Context, acc *Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.accounts[acc.ID] = acc
	return nil
}

func (repo *accountRepository) Update(_ context.Context, acc *Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.accounts[acc.ID]; !ok {
		return ErrNotFound
	}
	repo.accounts[acc.ID] = acc
	return nil
}

func (repo *accountRepository) FindByID(_ context.Context, id ID) (*Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	if acc, ok := repo.accounts[id]; ok {
		return acc, nil
	}
	return nil, ErrNotFound
}

func (repo *accountRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	for _, acc := range repo.accounts {
		if acc.Email == email {
			return acc, nil
		}
	}
	return nil, ErrNotFound
}

func (repo *accountRepository) FindByResetDigest(_ context.Context, digest string) (*Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	for _, acc := range repo.accounts {
		if acc.resetDigest != "" && acc.resetDigest == digest {
			return acc, nil
		}
	}
	return nil, ErrNotFound
}
