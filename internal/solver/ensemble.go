package solver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Ensemble solves one system from several initial states concurrently.
// Integrators keep scratch buffers, so every run gets a fresh Solver from
// the factory.
type Ensemble struct {
	newSolver func() *Solver
	limit     int
}

func NewEnsemble(newSolver func() *Solver, limit int) *Ensemble {
	return &Ensemble{newSolver: newSolver, limit: limit}
}

// Run returns one trajectory per initial state, in input order. The first
// failing run cancels the rest and its error is returned.
func (e *Ensemble) Run(ctx context.Context, sys dynamo.System, grid dynamo.TimeGrid, x0s []dynamo.State) ([]*Trajectory, error) {
	results := make([]*Trajectory, len(x0s))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i, x0 := range x0s {
		i, x0 := i, x0
		g.Go(func() error {
			traj, err := e.newSolver().Solve(ctx, sys, grid, x0)
			if err != nil {
				return err
			}
			results[i] = traj
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
