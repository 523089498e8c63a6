package main

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Cereal is one catalog entry.
type Cereal struct {
	Name   string `json:"name"`
	Sugary bool   `json:"sugary"`
}

// Store is an in-memory cereal catalog with simulated lookup latency.
type Store struct {
	mu      sync.RWMutex
	cereals []Cereal
	latency time.Duration
}

// NewStore creates a new store with sample data.
func NewStore(latency time.Duration) *Store {
	return &Store{
		latency: latency,
		cereals: []Cereal{
			{Name: "cinnamon life", Sugary: true},
			{Name: "berry berry kix", Sugary: true},
			{Name: "shredded wheat"},
		},
	}
}

// List returns every cereal in catalog order.
func (s *Store) List(ctx context.Context) ([]Cereal, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Cereal, len(s.cereals))
	copy(out, s.cereals)
	return out, nil
}

// Get returns the cereal at index.
func (s *Store) Get(ctx context.Context, index int) (Cereal, error) {
	if err := s.wait(ctx); err != nil {
		return Cereal{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.cereals) {
		return Cereal{}, fmt.Errorf("no cereal at %d", index)
	}
	return s.cereals[index], nil
}

func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
