package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/llatelier/storefront/internal/shopapi"
	"github.com/llatelier/storefront/pkg/config"
	"github.com/llatelier/storefront/pkg/logger"
)

type catalogClient interface {
	ListProducts(ctx context.Context, category string) ([]shopapi.Product, error)
	GetProduct(ctx context.Context, id string) (*shopapi.Product, error)
}

// Cache is the read-through cache surface. *redis.Client satisfies it; a nil
// Cache disables caching entirely.
type Cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	ProductKey(parts ...string) string
}

// Service fronts the shop API catalog with a short-lived cache so repeated
// storefront page loads do not hammer the upstream.
type Service struct {
	shop  catalogClient
	cache Cache
	ttl   time.Duration
	logg  *logger.Logger
}

// NewService builds the catalog facade. Cache and logger are optional.
func NewService(shop catalogClient, cache Cache, cfg config.ProductsConfig, logg *logger.Logger) (*Service, error) {
	if shop == nil {
		return nil, fmt.Errorf("catalog client required")
	}
	return &Service{
		shop:  shop,
		cache: cache,
		ttl:   cfg.CacheTTL,
		logg:  logg,
	}, nil
}

// List returns the catalog, optionally filtered by category. Cache failures
// fall through to the upstream; the cache is never a source of errors.
func (s *Service) List(ctx context.Context, category string) ([]shopapi.Product, error) {
	key := ""
	if s.cache != nil {
		suffix := category
		if suffix == "" {
			suffix = "all"
		}
		key = s.cache.ProductKey("list", suffix)
		var cached []shopapi.Product
		if s.readCache(ctx, key, &cached) {
			return cached, nil
		}
	}

	items, err := s.shop.ListProducts(ctx, category)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, key, items)
	return items, nil
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id string) (*shopapi.Product, error) {
	key := ""
	if s.cache != nil {
		key = s.cache.ProductKey("id", id)
		var cached shopapi.Product
		if s.readCache(ctx, key, &cached) {
			return &cached, nil
		}
	}

	product, err := s.shop.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, key, product)
	return product, nil
}

func (s *Service) readCache(ctx context.Context, key string, out any) bool {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redislib.Nil) && s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()}), "catalog cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()}), "catalog cache entry unreadable")
		}
		return false
	}
	return true
}

func (s *Service) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil || key == "" {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()}), "catalog cache write failed")
	}
}
