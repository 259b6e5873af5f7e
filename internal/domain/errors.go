package domain

import "errors"

var (
	// ErrUnsupportedChain indicates a chain id outside the supported set
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrAlreadyWaiting indicates a block-wait already exists for the same
	// (chain, tx hash) pair and the new request is a no-op
	ErrAlreadyWaiting = errors.New("block wait already in flight")
)
