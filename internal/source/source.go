package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	cluster "github.com/MadAppGang/geocluster"
	"github.com/MadAppGang/geocluster/internal/config"
	"github.com/paulmach/orb"
)

// Loader loads points for the cluster index.
type Loader interface {
	Load(ctx context.Context) ([]cluster.GeoPoint, error)
}

// Type identifies a point source.
type Type string

const (
	TypeGeoJSON  Type = "geojson"
	TypePostgres Type = "postgres"
	TypeRandom   Type = "random"
)

// ErrUnknownSource is returned by New for unsupported source types.
var ErrUnknownSource = errors.New("unknown point source")

// New creates the loader selected by configuration.
// The returned cleanup function releases loader resources (database pool), it is never nil.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (Loader, func(), error) {
	noop := func() {}

	switch Type(cfg.Source.Type) {
	case TypeGeoJSON:
		if cfg.Source.Path == "" {
			return nil, noop, fmt.Errorf("%w: geojson source requires a path", ErrUnknownSource)
		}
		return &GeoJSONFile{Path: cfg.Source.Path}, noop, nil
	case TypePostgres:
		pool, err := NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		return NewPostgres(pool, cfg.Source.Table, log), pool.Close, nil
	case TypeRandom:
		area := cfg.Source.Random.Area
		return &Random{
			Count: cfg.Source.Random.Count,
			Seed:  cfg.Source.Random.Seed,
			Bound: orb.Bound{
				Min: orb.Point{area.West, area.South},
				Max: orb.Point{area.East, area.North},
			},
		}, noop, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source.Type)
	}
}
