package service

import (
	"github.com/okian/cricxi/internal/adapters/repository"
	"github.com/okian/cricxi/internal/domain/registry"
	"github.com/okian/cricxi/internal/domain/resolver"
	"github.com/okian/cricxi/internal/domain/validation"
	"github.com/okian/cricxi/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of batch validation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the batch validation queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxBatchRosters caps the rosters accepted by ValidateBatch.
func WithMaxBatchRosters(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchRosters = n
		}
	}
}

// WithSource sets where LoadPlayers reads the pool from.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithRegistry installs an already built registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Service) {
		s.initial = reg
	}
}

// WithResolverOptions sets the options every resolver is built with.
func WithResolverOptions(opts ...resolver.Option) Option {
	return func(s *Service) {
		s.resolverOpts = append(s.resolverOpts, opts...)
	}
}

// WithEngine replaces the default validation engine.
func WithEngine(e *validation.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
