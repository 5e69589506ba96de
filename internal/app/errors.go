package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotReady      = errors.New("player registry not loaded")
	ErrNoSource      = errors.New("no player source configured")
	ErrBatchTooLarge = errors.New("too many rosters in batch")
)
