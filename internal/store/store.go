// Package store caches finished intelligence records so repeat lookups
// skip the network entirely.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/intel-engine/internal/config"
	"github.com/sells-group/intel-engine/internal/domains"
	"github.com/sells-group/intel-engine/internal/model"
)

// Store is the persistence interface for cached records. Get returns
// (nil, nil) on a miss or an expired entry.
type Store interface {
	Get(ctx context.Context, companyName, domain string) (*model.IntelligenceRecord, error)
	Put(ctx context.Context, companyName, domain string, rec *model.IntelligenceRecord, ttl time.Duration) error
	DeleteExpired(ctx context.Context) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Key builds the cache key for a company. Domain normalization keeps
// "https://www.acme.com" and "acme.com" on the same entry.
func Key(companyName, domain string) string {
	name := strings.ToLower(strings.TrimSpace(companyName))
	return name + "|" + domains.Normalize(domain)
}

// Open constructs a Store for the configured driver and runs migrations.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "memory":
		s = NewMemory()
	case "sqlite", "":
		s, err = NewSQLite(cfg.DSN)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DSN)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
