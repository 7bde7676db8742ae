// Package db opens the pgx connection pool for the careguide API. The
// schema is Prisma-managed, so connection strings arrive in whatever
// form the hosting environment hands out; Connect normalizes them to a
// plain postgres URL that pgx accepts before building the pool.
package db

import (
	"context"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Query parameters pgxpool.ParseConfig understands: the libpq set plus
// pgx's own default_query_exec_mode. Anything else in the URL (for
// example Prisma's schema= selector) makes ParseConfig fail, so unknown
// keys are stripped rather than passed through.
var libpqQueryKeys = map[string]struct{}{
	"application_name":        {},
	"channel_binding":         {},
	"client_encoding":         {},
	"connect_timeout":         {},
	"default_query_exec_mode": {},
	"gssencmode":              {},
	"host":                    {},
	"keepalives":              {},
	"keepalives_count":        {},
	"keepalives_idle":         {},
	"keepalives_interval":     {},
	"krbsrvname":              {},
	"options":                 {},
	"passfile":                {},
	"service":                 {},
	"sslcert":                 {},
	"sslcrl":                  {},
	"sslkey":                  {},
	"sslmode":                 {},
	"sslpassword":             {},
	"sslrootcert":             {},
	"target_session_attrs":    {},
}

func Connect(ctx context.Context, rawURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(normalizeDatabaseURL(rawURL))
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

// normalizeDatabaseURL rewrites Prisma-flavored connection strings to
// the postgres scheme and drops query parameters libpq would reject.
// The host query key survives filtering: Cloud SQL connection strings
// carry the unix socket path there.
func normalizeDatabaseURL(rawURL string) string {
	normalized := strings.TrimSpace(rawURL)
	for _, scheme := range []string{"prisma+postgres://", "postgresql://"} {
		if strings.HasPrefix(normalized, scheme) {
			normalized = "postgres://" + strings.TrimPrefix(normalized, scheme)
			break
		}
	}

	parsed, err := url.Parse(normalized)
	if err != nil || parsed.Scheme != "postgres" {
		return normalized
	}

	filtered := make(url.Values)
	for key, values := range parsed.Query() {
		if _, ok := libpqQueryKeys[key]; ok {
			filtered[key] = values
		}
	}
	parsed.RawQuery = filtered.Encode()
	return parsed.String()
}
