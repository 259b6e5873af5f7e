package notification

import (
	"context"
	"errors"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-asset-aggregator/internal/cache"
	"github.com/feral-file/ff-asset-aggregator/internal/domain"
	"github.com/feral-file/ff-asset-aggregator/internal/logger"
	"github.com/feral-file/ff-asset-aggregator/internal/providers/subgraph"
)

// Pipeline turns an inbound transfer event into device notifications. The
// flow is: wait for the subgraph to index the transfer's block, resolve the
// devices on both ends of the transfer, drop their cached pages, then push
// a refresh message to each.
type Pipeline struct {
	subgraph   subgraph.Client
	waiter     *Waiter
	cache      *cache.ResultCache
	dispatcher Dispatcher
	pool       pond.Pool
}

// NewPipeline creates a new transfer notification pipeline
func NewPipeline(
	subgraphClient subgraph.Client,
	waiter *Waiter,
	resultCache *cache.ResultCache,
	dispatcher Dispatcher,
) *Pipeline {
	return &Pipeline{
		subgraph:   subgraphClient,
		waiter:     waiter,
		cache:      resultCache,
		dispatcher: dispatcher,
		pool:       pond.NewPool(10),
	}
}

// Close drains in-flight pipeline runs
func (p *Pipeline) Close() {
	p.pool.StopAndWait()
}

// Enqueue accepts a transfer event and processes it in the background. The
// caller's request returns immediately.
func (p *Pipeline) Enqueue(activity domain.TransferActivity) {
	p.pool.Submit(func() {
		p.HandleTransferActivity(context.Background(), activity)
	})
}

// HandleTransferActivity runs the full wait-resolve-invalidate-dispatch
// flow for one transfer event. A duplicate event for a (chain, txHash)
// already being waited on is a no-op. All failures are logged and
// swallowed.
func (p *Pipeline) HandleTransferActivity(ctx context.Context, activity domain.TransferActivity) {
	logger.InfoCtx(ctx, "Transfer activity received",
		zap.Int("chain", int(activity.Chain)),
		zap.Uint64("block_number", activity.BlockNumber),
		zap.String("tx_hash", activity.TxHash),
		zap.String("send_contract", activity.SendContract),
		zap.String("receive_contract", activity.ReceiveContract),
		zap.String("token", activity.ContractAddress),
		zap.String("token_id", activity.TokenID),
	)

	if err := p.waiter.WaitForBlock(ctx, activity.Chain, activity.TxHash, activity.BlockNumber); err != nil {
		if errors.Is(err, domain.ErrAlreadyWaiting) {
			logger.InfoCtx(ctx, "Duplicate transfer activity ignored",
				zap.Int("chain", int(activity.Chain)),
				zap.String("tx_hash", activity.TxHash),
			)
			return
		}
		logger.ErrorCtx(ctx, "Block wait aborted",
			zap.Int("chain", int(activity.Chain)),
			zap.String("tx_hash", activity.TxHash),
			zap.Error(err),
		)
		return
	}

	devices := p.resolveDevices(ctx, activity)
	if len(devices) == 0 {
		logger.InfoCtx(ctx, "No devices resolved for transfer",
			zap.String("tx_hash", activity.TxHash),
		)
		return
	}

	invalidated := p.cache.InvalidateOwners(ctx, devices)
	logger.InfoCtx(ctx, "Hardware cache cleared for transfer",
		zap.String("tx_hash", activity.TxHash),
		zap.Strings("devices", devices),
		zap.Int("invalidated", len(invalidated)),
	)

	p.dispatcher.Dispatch(ctx, devices)
}

// resolveDevices looks up the holder contracts on both ends of a transfer
// and collects the non-zero endpoints of their most recent records.
// Failures on either side degrade to an empty contribution.
func (p *Pipeline) resolveDevices(ctx context.Context, activity domain.TransferActivity) []string {
	var devices []string
	seen := make(map[string]struct{})
	add := func(addr string) {
		if addr == "" || domain.IsZeroAddress(addr) {
			return
		}
		normalized := domain.NormalizeAddress(addr)
		if _, ok := seen[normalized]; ok {
			return
		}
		seen[normalized] = struct{}{}
		devices = append(devices, addr)
	}

	for _, contract := range []string{activity.SendContract, activity.ReceiveContract} {
		if contract == "" {
			continue
		}
		assets, err := p.subgraph.GetAssetsByHolderContract(ctx, activity.Chain, contract, activity.BlockNumber)
		if err != nil {
			logger.ErrorCtx(ctx, "Failed to resolve holder contract",
				zap.Int("chain", int(activity.Chain)),
				zap.String("contract", contract),
				zap.Error(err),
			)
			continue
		}
		if len(assets) == 0 {
			continue
		}
		add(assets[0].From)
		add(assets[0].To)
	}

	return devices
}
