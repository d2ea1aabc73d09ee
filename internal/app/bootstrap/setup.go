package bootstrap

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"mailsift/internal/config"
	"mailsift/internal/database"
	"mailsift/internal/denylist"
	"mailsift/internal/geolite"
	"mailsift/internal/support"
)

// DenylistLoader wires the remote source and the optional redis snapshot
// cache. Configuration problems disable the failing part with a warning.
func DenylistLoader(ctx context.Context, cfg config.Config) *denylist.Loader {
	var source denylist.Source
	httpSource, err := denylist.NewHTTPSource(cfg.Denylist.URL, cfg.DenylistTimeout(), cfg.Denylist.Proxy)
	if err != nil {
		log.Warn("Denylist source disabled", "error", err)
	} else {
		source = httpSource
	}

	return denylist.NewLoader(source, SnapshotStore(ctx, cfg))
}

// SnapshotStore returns nil when no redis URL is configured or redis cannot
// be reached.
func SnapshotStore(ctx context.Context, cfg config.Config) denylist.SnapshotStore {
	redisURL := strings.TrimSpace(cfg.Denylist.RedisURL)
	if redisURL == "" {
		return nil
	}

	client, err := support.GetRedisClient(ctx, redisURL)
	if err != nil {
		log.Warn("Denylist snapshot cache disabled", "error", err)
		return nil
	}
	return denylist.NewRedisSnapshotStore(client, cfg.DenylistCacheTTL())
}

// ExportDatabase opens the threat entry database. It reports false when no
// DSN is configured or the connection fails.
func ExportDatabase(cfg config.Config) bool {
	dsn := strings.TrimSpace(cfg.Merger.DatabaseDSN)
	if dsn == "" {
		return false
	}

	dialector, err := database.DialectorForDSN(dsn)
	if err != nil {
		log.Warn("Threat database export disabled", "error", err)
		return false
	}
	if _, err := database.SetupDB(database.WithDialector(dialector)); err != nil {
		log.Warn("Threat database export disabled", "error", err)
		return false
	}
	return true
}

// CountryReader opens the GeoLite country database, nil when unset or
// unreadable.
func CountryReader(cfg config.Config) *geolite.CountryReader {
	path := strings.TrimSpace(cfg.Enrich.GeoLiteCountryDB)
	if path == "" {
		return nil
	}

	reader, err := geolite.Open(path)
	if err != nil {
		log.Warn("GeoLite country fallback disabled", "error", err)
		return nil
	}
	return reader
}

// Shutdown releases the shared connections opened by this package.
func Shutdown() {
	if err := database.Close(); err != nil {
		log.Warn("error closing database", "error", err)
	}
	if err := support.CloseRedisClient(); err != nil {
		log.Warn("error closing redis client", "error", err)
	}
}
