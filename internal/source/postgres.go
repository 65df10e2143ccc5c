package source

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"

	cluster "github.com/MadAppGang/geocluster"
	"github.com/MadAppGang/geocluster/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database is the part of pgxpool.Pool used by the loader, pgxmock pools implement it too.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres loads points from a table with id, longitude and latitude columns.
type Postgres struct {
	db    Database
	table string
	log   *slog.Logger
}

// NewPostgres creates a new loader for the table, table could be schema qualified: public.points
func NewPostgres(db Database, table string, log *slog.Logger) *Postgres {
	return &Postgres{db: db, table: table, log: log}
}

// NewPool connects to the database described by cfg.
func NewPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
		Path:   cfg.Name,
	}
	pool, err := pgxpool.New(ctx, dsn.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

func (p *Postgres) query() string {
	table := pgx.Identifier(strings.Split(p.table, ".")).Sanitize()
	return `
		SELECT id::text, longitude, latitude
		FROM ` + table + `
		WHERE longitude IS NOT NULL AND latitude IS NOT NULL
		ORDER BY id;
	`
}

// Load reads all points of the table ordered by id.
// Rows with coordinates out of range are skipped and logged.
func (p *Postgres) Load(ctx context.Context) ([]cluster.GeoPoint, error) {
	rows, err := p.db.Query(ctx, p.query())
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	var points []cluster.GeoPoint
	skipped := 0
	for rows.Next() {
		point := &cluster.Point{}
		if errScan := rows.Scan(&point.ID, &point.Coordinates.Lon, &point.Coordinates.Lat); errScan != nil {
			return nil, fmt.Errorf("failed to scan point: %w", errScan)
		}
		if !point.Coordinates.Valid() {
			p.log.WarnContext(ctx, "Skipping point with invalid coordinates",
				"id", point.ID, "lon", point.Coordinates.Lon, "lat", point.Coordinates.Lat)
			skipped++
			continue
		}
		points = append(points, point)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	p.log.InfoContext(ctx, "Points loaded from database", "table", p.table, "points", len(points), "skipped", skipped)
	return points, nil
}
