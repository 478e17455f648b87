package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/insurance-system/insurance-backend/internal/proposals/domain"
)

const (
	proposalKeyPrefix = "proposals:"    // single entity: proposals:{id}
	allProposalsKey   = "proposals:all" // full listing
	proposalCacheTTL  = 5 * time.Minute
)

// CachedProposalRepository is a cache-aside decorator over a ProposalStore.
// The durable store stays the source of truth: reads fall through on any
// cache failure, and writes invalidate instead of repopulating. Cache errors
// never reach the caller.
type CachedProposalRepository struct {
	inner ProposalStore
	cache *redis.Client
}

func NewCachedProposalRepository(inner ProposalStore, cache *redis.Client) *CachedProposalRepository {
	return &CachedProposalRepository{inner: inner, cache: cache}
}

func proposalKey(id uuid.UUID) string {
	return proposalKeyPrefix + id.String()
}

func (r *CachedProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	key := proposalKey(id)

	if data, err := r.cache.Get(ctx, key).Result(); err == nil {
		var p domain.Proposal
		if err := json.Unmarshal([]byte(data), &p); err == nil {
			return &p, nil
		}
		log.Printf("[warn] operation=cache_get key=%s err=corrupt entry, falling through", key)
	} else if err != redis.Nil {
		log.Printf("[warn] operation=cache_get key=%s err=%v", key, err)
	}

	p, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.set(ctx, key, p)
	return p, nil
}

func (r *CachedProposalRepository) GetAll(ctx context.Context) ([]domain.Proposal, error) {
	if data, err := r.cache.Get(ctx, allProposalsKey).Result(); err == nil {
		var list []domain.Proposal
		if err := json.Unmarshal([]byte(data), &list); err == nil {
			return list, nil
		}
		log.Printf("[warn] operation=cache_get key=%s err=corrupt entry, falling through", allProposalsKey)
	} else if err != redis.Nil {
		log.Printf("[warn] operation=cache_get key=%s err=%v", allProposalsKey, err)
	}

	list, err := r.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	r.set(ctx, allProposalsKey, list)
	return list, nil
}

// GetByStatus is not a hot path; it bypasses the cache on purpose.
func (r *CachedProposalRepository) GetByStatus(ctx context.Context, status domain.Status) ([]domain.Proposal, error) {
	return r.inner.GetByStatus(ctx, status)
}

func (r *CachedProposalRepository) Add(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error) {
	created, err := r.inner.Add(ctx, p)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, proposalKey(created.ID), allProposalsKey)
	return created, nil
}

func (r *CachedProposalRepository) Update(ctx context.Context, p *domain.Proposal) (*domain.Proposal, error) {
	updated, err := r.inner.Update(ctx, p)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, proposalKey(updated.ID), allProposalsKey)
	return updated, nil
}

func (r *CachedProposalRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.inner.Exists(ctx, id)
}

func (r *CachedProposalRepository) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[warn] operation=cache_set key=%s err=%v", key, err)
		return
	}
	if err := r.cache.Set(ctx, key, data, proposalCacheTTL).Err(); err != nil {
		log.Printf("[warn] operation=cache_set key=%s err=%v", key, err)
	}
}

// invalidate deletes keys after a successful write. Staleness is tolerated,
// so a failed delete is only logged.
func (r *CachedProposalRepository) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[warn] operation=cache_invalidate keys=%v err=%v", keys, err)
	}
}
