package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	deps    map[string]Pinger
	timeout time.Duration
}

func NewHealthService(deps map[string]Pinger) *HealthService {
	return &HealthService{deps: deps, timeout: 2 * time.Second}
}

// Get pings every dependency in name order and joins the failures.
func (s *HealthService) Get() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(s.deps)) {
		if err := s.deps[name].Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
