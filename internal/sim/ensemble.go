package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Case is one member of an ensemble.
type Case struct {
	Name   string
	Config SessionConfig
	Input  InputSource
}

type CaseResult struct {
	Name string
	*Result
}

// Ensemble runs independent sessions concurrently. Every case gets its own
// physics space; only the read-only gain matrix may be shared.
type Ensemble struct {
	Duration float64
	// Limit bounds the number of sessions running at once; 0 means no limit.
	Limit       int
	KeepHistory bool
}

// Run returns results in case order. The first failing case cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cases []Case) ([]CaseResult, error) {
	results := make([]CaseResult, len(cases))

	g, ctx := errgroup.WithContext(ctx)
	if e.Limit > 0 {
		g.SetLimit(e.Limit)
	}

	for i, c := range cases {
		g.Go(func() error {
			session, err := NewSession(c.Config)
			if err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}

			runner := Runner{KeepHistory: e.KeepHistory}
			res, err := runner.Run(ctx, session.Loop, c.Input, e.Duration)
			if err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}
			results[i] = CaseResult{Name: c.Name, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
