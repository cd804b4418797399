// Package service evaluates collision queries for the transports: HTTP,
// WebSocket, SSH and the CLI all go through a Service.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/shapecollide/internal/log"
	"github.com/tomz197/shapecollide/internal/shape"
)

// ErrBatchTooLarge is returned when a batch exceeds Options.MaxPairs.
var ErrBatchTooLarge = errors.New("batch too large")

// Pair is one collision query.
type Pair struct {
	A shape.Descriptor `json:"a" yaml:"a"`
	B shape.Descriptor `json:"b" yaml:"b"`
}

// Result is the answer to one Pair.
type Result struct {
	ID       string `json:"id"`
	Collides bool   `json:"collides"`
}

// Health is the static identity payload of the health check.
type Health struct {
	Name string `json:"name"`
}

// PairError reports which pair of a batch failed.
type PairError struct {
	Index int
	Err   error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("pair %d: %v", e.Index, e.Err)
}

func (e *PairError) Unwrap() error {
	return e.Err
}

// Options configures a Service.
type Options struct {
	Name     string
	Workers  int
	MaxPairs int
}

type Service struct {
	opts  Options
	log   log.Log
	newID func() string
}

// New creates a Service. Non-positive Workers or MaxPairs fall back to 1 and
// unlimited respectively.
func New(l log.Log, opts Options) *Service {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Service{
		opts:  opts,
		log:   l,
		newID: func() string { return uuid.NewString() },
	}
}

func (s *Service) Health() Health {
	return Health{Name: s.opts.Name}
}

// Collide converts both descriptors and tests them against each other.
func (s *Service) Collide(ctx context.Context, p Pair) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	a, err := p.A.Shape()
	if err != nil {
		return Result{}, fmt.Errorf("shape a: %w", err)
	}
	b, err := p.B.Shape()
	if err != nil {
		return Result{}, fmt.Errorf("shape b: %w", err)
	}
	return s.CollideShapes(a, b)
}

// CollideShapes tests two already converted shapes.
func (s *Service) CollideShapes(a, b shape.Shape) (Result, error) {
	collides, err := shape.Collides(a, b)
	if err != nil {
		return Result{}, err
	}

	res := Result{ID: s.newID(), Collides: collides}
	s.log.Debug("collision evaluated",
		log.String("id", res.ID),
		log.String("a", shape.DescriptorOf(a).String()),
		log.String("b", shape.DescriptorOf(b).String()),
		log.Bool("collides", collides),
	)
	return res, nil
}

// CollideBatch evaluates pairs concurrently and returns the results in input
// order. The first failing pair cancels the rest and is returned as a *PairError.
func (s *Service) CollideBatch(ctx context.Context, pairs []Pair) ([]Result, error) {
	if s.opts.MaxPairs > 0 && len(pairs) > s.opts.MaxPairs {
		return nil, fmt.Errorf("%w: %d pairs, limit %d", ErrBatchTooLarge, len(pairs), s.opts.MaxPairs)
	}

	results := make([]Result, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i, p := range pairs {
		g.Go(func() error {
			res, err := s.Collide(gctx, p)
			if err != nil {
				return &PairError{Index: i, Err: err}
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Warn("batch rejected", log.Int("pairs", len(pairs)), log.Err(err))
		return nil, err
	}
	s.log.Debug("batch evaluated", log.Int("pairs", len(pairs)))
	return results, nil
}
