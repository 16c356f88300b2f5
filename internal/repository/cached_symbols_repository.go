package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"plan-intervention-api/internal/domain/model"
	"plan-intervention-api/internal/domain/repository"
	"plan-intervention-api/internal/metrics"
)

// dureeCacheSymboles durée de vie des listes de symboles en cache
const dureeCacheSymboles = 5 * time.Minute

// CachedSymbolsRepository décorateur Redis autour d'un CustomSymbolsRepository.
// Les listes par service sont mises en cache et invalidées à chaque écriture.
// Un incident Redis n'est jamais bloquant: on retombe sur la passerelle.
type CachedSymbolsRepository struct {
	inner  repository.CustomSymbolsRepository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewCachedSymbolsRepository(inner repository.CustomSymbolsRepository, rdb *redis.Client, logger *zap.Logger) repository.CustomSymbolsRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSymbolsRepository{inner: inner, rdb: rdb, logger: logger}
}

func cleSymboles(tenantID string) string {
	return "symboles:" + tenantID
}

func (r *CachedSymbolsRepository) ListByTenant(ctx context.Context, tenantID string) ([]model.CustomSymbol, error) {
	cle := cleSymboles(tenantID)

	if data, err := r.rdb.Get(ctx, cle).Bytes(); err == nil {
		var symboles []model.CustomSymbol
		if err := json.Unmarshal(data, &symboles); err == nil {
			metrics.SymbolCacheHitsTotal.Inc()
			return symboles, nil
		}
	}
	metrics.SymbolCacheMissesTotal.Inc()

	symboles, err := r.inner.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(symboles); err == nil {
		if err := r.rdb.Set(ctx, cle, data, dureeCacheSymboles).Err(); err != nil {
			r.logger.Warn("écriture du cache de symboles échouée", zap.Error(err))
		}
	}
	return symboles, nil
}

func (r *CachedSymbolsRepository) GetByID(ctx context.Context, tenantID, id string) (*model.CustomSymbol, error) {
	return r.inner.GetByID(ctx, tenantID, id)
}

func (r *CachedSymbolsRepository) Create(ctx context.Context, symbole *model.CustomSymbol) error {
	if err := r.inner.Create(ctx, symbole); err != nil {
		return err
	}
	r.invalide(ctx, symbole.TenantID)
	return nil
}

func (r *CachedSymbolsRepository) Update(ctx context.Context, symbole *model.CustomSymbol) error {
	if err := r.inner.Update(ctx, symbole); err != nil {
		return err
	}
	r.invalide(ctx, symbole.TenantID)
	return nil
}

func (r *CachedSymbolsRepository) Delete(ctx context.Context, tenantID, id string) error {
	if err := r.inner.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	r.invalide(ctx, tenantID)
	return nil
}

func (r *CachedSymbolsRepository) invalide(ctx context.Context, tenantID string) {
	if err := r.rdb.Del(ctx, cleSymboles(tenantID)).Err(); err != nil {
		r.logger.Warn("invalidation du cache de symboles échouée",
			zap.String("tenant_id", tenantID),
			zap.Error(err))
	}
}
