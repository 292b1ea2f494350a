package db

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	TenantIDKey contextKey = "tenant_id"
	DBConnKey   contextKey = "db_conn"
)

// Tenant identifiers become schema names, so only word characters are
// allowed. This is the sole defense against search_path injection.
var tenantIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func schemaFor(tenantID string) string {
	return "tenant_" + tenantID
}

// TenantMiddleware pins each request to its clinic's schema. It acquires a
// connection, points its search_path at the tenant schema, and stores the
// connection in the request context so repositories reuse it instead of the
// shared pool. The connection is released when the request finishes.
func TenantMiddleware(pool *pgxpool.Pool, defaultTenant string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID := extractTenantID(c, defaultTenant)
			if !tenantIDPattern.MatchString(tenantID) {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid tenant identifier")
			}

			ctx := c.Request().Context()
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
			defer conn.Release()

			setPath := fmt.Sprintf("SET search_path TO %s, shared, public", schemaFor(tenantID))
			if _, err := conn.Exec(ctx, setPath); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "tenant resolution failed")
			}

			ctx = context.WithValue(ctx, TenantIDKey, tenantID)
			ctx = context.WithValue(ctx, DBConnKey, conn)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("tenant_id", tenantID)

			return next(c)
		}
	}
}

// extractTenantID resolves the clinic a request belongs to. The token claim
// wins so an authenticated caller cannot hop tenants with a header; the
// X-Tenant-ID header and tenant_id query param serve unauthenticated paths
// like the health endpoints.
func extractTenantID(c echo.Context, defaultTenant string) string {
	candidates := []string{}
	if tid, ok := c.Get("jwt_tenant_id").(string); ok {
		candidates = append(candidates, tid)
	}
	candidates = append(candidates,
		c.Request().Header.Get("X-Tenant-ID"),
		c.QueryParam("tenant_id"),
	)
	for _, tid := range candidates {
		if tid != "" {
			return tid
		}
	}
	return defaultTenant
}

// ConnFromContext returns the tenant-scoped connection for the request, or
// nil outside of a request (CLI paths fall back to the pool).
func ConnFromContext(ctx context.Context) *pgxpool.Conn {
	conn, _ := ctx.Value(DBConnKey).(*pgxpool.Conn)
	return conn
}

// TenantFromContext returns the tenant id the request was resolved to.
func TenantFromContext(ctx context.Context) string {
	tid, _ := ctx.Value(TenantIDKey).(string)
	return tid
}

// CreateTenantSchema provisions the schema for a new clinic and, when a
// migrations directory is given, brings it up to the current version.
func CreateTenantSchema(ctx context.Context, pool *pgxpool.Pool, tenantID string, migrationsDir string) error {
	if !tenantIDPattern.MatchString(tenantID) {
		return fmt.Errorf("invalid tenant identifier: %s", tenantID)
	}
	schema := schemaFor(tenantID)

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
		return fmt.Errorf("create schema %s: %w", schema, err)
	}

	if migrationsDir != "" {
		if _, err := NewMigrator(pool, migrationsDir).Up(ctx, schema); err != nil {
			return fmt.Errorf("migrate schema %s: %w", schema, err)
		}
	}
	return nil
}
