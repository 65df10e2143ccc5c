package source

import (
	"context"
	"fmt"
	"math/rand"

	cluster "github.com/MadAppGang/geocluster"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Random generates uniformly distributed demo points inside Bound.
// The same Seed always gives the same points and ids.
type Random struct {
	Count int
	Seed  int64
	Bound orb.Bound
}

func (r *Random) Load(ctx context.Context) ([]cluster.GeoPoint, error) {
	if r.Count < 0 {
		return nil, fmt.Errorf("negative number of random points: %d", r.Count)
	}
	rnd := rand.New(rand.NewSource(r.Seed))
	points := make([]cluster.GeoPoint, r.Count)
	for i := range points {
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		id, err := uuid.NewRandomFromReader(rnd)
		if err != nil {
			return nil, fmt.Errorf("failed to generate point id: %w", err)
		}
		points[i] = &cluster.Point{
			ID: id.String(),
			Coordinates: cluster.GeoCoordinates{
				Lon: rnd.Float64()*(r.Bound.Right()-r.Bound.Left()) + r.Bound.Left(),
				Lat: rnd.Float64()*(r.Bound.Top()-r.Bound.Bottom()) + r.Bound.Bottom(),
			},
		}
	}
	return points, nil
}
