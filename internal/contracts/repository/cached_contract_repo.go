package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/insurance-system/insurance-backend/internal/contracts/domain"
)

const (
	contractKeyPrefix = "contracts:"
	allContractsKey   = "contracts:all"
	contractCacheTTL  = 5 * time.Minute
)

// CachedContractRepository is the cache-aside decorator over a ContractStore.
// Same discipline as the proposal side: the durable store is authoritative,
// cache failures are absorbed, writes invalidate.
type CachedContractRepository struct {
	inner ContractStore
	cache *redis.Client
}

func NewCachedContractRepository(inner ContractStore, cache *redis.Client) *CachedContractRepository {
	return &CachedContractRepository{inner: inner, cache: cache}
}

func contractKey(id uuid.UUID) string {
	return contractKeyPrefix + id.String()
}

func (r *CachedContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	key := contractKey(id)

	if data, err := r.cache.Get(ctx, key).Result(); err == nil {
		var c domain.Contract
		if err := json.Unmarshal([]byte(data), &c); err == nil {
			return &c, nil
		}
		log.Printf("[warn] operation=cache_get key=%s err=corrupt entry, falling through", key)
	} else if err != redis.Nil {
		log.Printf("[warn] operation=cache_get key=%s err=%v", key, err)
	}

	c, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.set(ctx, key, c)
	return c, nil
}

// GetByProposalID is the issuance duplicate check. It bypasses the cache on
// purpose: the lookup is rare and the unique index is the real authority.
func (r *CachedContractRepository) GetByProposalID(ctx context.Context, proposalID uuid.UUID) (*domain.Contract, error) {
	return r.inner.GetByProposalID(ctx, proposalID)
}

func (r *CachedContractRepository) GetAll(ctx context.Context) ([]domain.Contract, error) {
	if data, err := r.cache.Get(ctx, allContractsKey).Result(); err == nil {
		var list []domain.Contract
		if err := json.Unmarshal([]byte(data), &list); err == nil {
			return list, nil
		}
		log.Printf("[warn] operation=cache_get key=%s err=corrupt entry, falling through", allContractsKey)
	} else if err != redis.Nil {
		log.Printf("[warn] operation=cache_get key=%s err=%v", allContractsKey, err)
	}

	list, err := r.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	r.set(ctx, allContractsKey, list)
	return list, nil
}

func (r *CachedContractRepository) Add(ctx context.Context, c *domain.Contract) (*domain.Contract, error) {
	created, err := r.inner.Add(ctx, c)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Del(ctx, contractKey(created.ID), allContractsKey).Err(); err != nil {
		log.Printf("[warn] operation=cache_invalidate contract_id=%s err=%v", created.ID, err)
	}
	return created, nil
}

func (r *CachedContractRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.inner.Exists(ctx, id)
}

func (r *CachedContractRepository) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[warn] operation=cache_set key=%s err=%v", key, err)
		return
	}
	if err := r.cache.Set(ctx, key, data, contractCacheTTL).Err(); err != nil {
		log.Printf("[warn] operation=cache_set key=%s err=%v", key, err)
	}
}
