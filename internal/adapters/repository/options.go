package repository

import "github.com/google/uuid"

// Option applies a configuration option to the FileSource.
type Option func(*FileSource)

// WithNamespace sets the UUID namespace used to derive missing player ids.
func WithNamespace(ns uuid.UUID) Option {
	return func(s *FileSource) {
		if ns != uuid.Nil {
			s.namespace = ns
		}
	}
}

// WithEligibleByDefault marks players that omit is_eligible_today as eligible.
func WithEligibleByDefault(eligible bool) Option {
	return func(s *FileSource) {
		s.eligibleByDefault = eligible
	}
}
