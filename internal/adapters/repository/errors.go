package repository

import "errors"

// Sentinel kinds for file loading errors.
var (
	ErrLoadPlayers = errors.New("load players failed")
	ErrLoadRoster  = errors.New("load roster failed")
)
