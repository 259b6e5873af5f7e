package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-asset-aggregator/internal/adapter"
	"github.com/feral-file/ff-asset-aggregator/internal/domain"
	"github.com/feral-file/ff-asset-aggregator/internal/logger"
	"github.com/feral-file/ff-asset-aggregator/internal/providers/subgraph"
)

// Waiter blocks until the transfer subgraph has indexed a given block.
// Waits are keyed by (chain, txHash); a second wait on a key already in
// flight is rejected so duplicate transfer events collapse into one
// notification.
type Waiter struct {
	subgraph     subgraph.Client
	clock        adapter.Clock
	pollInterval time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewWaiter creates a new block waiter polling at the given interval
func NewWaiter(subgraphClient subgraph.Client, clock adapter.Clock, pollInterval time.Duration) *Waiter {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Waiter{
		subgraph:     subgraphClient,
		clock:        clock,
		pollInterval: pollInterval,
		inFlight:     make(map[string]struct{}),
	}
}

// WaitForBlock polls the subgraph head until it reaches blockNumber.
// Returns domain.ErrAlreadyWaiting when a wait for the same (chain, txHash)
// is in flight. There is no timeout; the wait ends when the subgraph
// catches up or the context is canceled. Poll errors are logged and the
// wait continues.
func (w *Waiter) WaitForBlock(ctx context.Context, chain domain.Chain, txHash string, blockNumber uint64) error {
	key := waitKey(chain, txHash)

	w.mu.Lock()
	if _, ok := w.inFlight[key]; ok {
		w.mu.Unlock()
		return domain.ErrAlreadyWaiting
	}
	w.inFlight[key] = struct{}{}
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		delete(w.inFlight, key)
		w.mu.Unlock()
	}()

	for {
		head, err := w.subgraph.GetHeadBlock(ctx, chain)
		if err != nil {
			logger.ErrorCtx(ctx, "Failed to query subgraph head block",
				zap.Int("chain", int(chain)),
				zap.String("tx_hash", txHash),
				zap.Error(err),
			)
		} else {
			logger.InfoCtx(ctx, "Waiting for subgraph to index block",
				zap.Uint64("target_block", blockNumber),
				zap.Uint64("head_block", head),
				zap.String("tx_hash", txHash),
			)
			if head >= blockNumber {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.clock.After(w.pollInterval):
		}
	}
}

func waitKey(chain domain.Chain, txHash string) string {
	return fmt.Sprintf("wait_for_%d_%s", chain, txHash)
}
