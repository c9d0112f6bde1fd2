package engine

import (
	"math"

	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// AssignConnections links every sprinkler to the closest point on any pipe.
// The result is parallel to sprinklers; on equal distance the earlier pipe wins.
func AssignConnections(sprinklers []model.Point3D, pipes []model.Pipe) ([]model.Connection, error) {
	if len(pipes) == 0 {
		return nil, model.NewError(model.ErrCodeInvalidInput, "at least one pipe is required")
	}

	conns := make([]model.Connection, len(sprinklers))
	for i, s := range sprinklers {
		best := model.Connection{Sprinkler: s, PipeIndex: -1, Distance: math.Inf(1)}
		for j, pipe := range pipes {
			cp := pipe.ClosestPoint(s)
			if d := s.Distance(cp); d < best.Distance {
				best.Point = cp
				best.PipeIndex = j
				best.Distance = d
			}
		}
		conns[i] = best
	}
	return conns, nil
}
