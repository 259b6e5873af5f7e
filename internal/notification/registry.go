package notification

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/feral-file/ff-asset-aggregator/internal/domain"
	"github.com/feral-file/ff-asset-aggregator/internal/logger"
	"github.com/feral-file/ff-asset-aggregator/internal/providers/nftscan"
)

// residentKey identifies an address known to be registered on a chain
type residentKey struct {
	chain   domain.Chain
	address string
}

// Accumulator keeps the remote notification registry in sync with the
// addresses surfaced by read queries. Buckets are capacity-bounded on the
// remote side; a full bucket is never mutated and the next registration
// opens a fresh one.
//
// A resident set of already-registered addresses suppresses repeat remote
// roundtrips for the lifetime of the process.
type Accumulator struct {
	registry nftscan.NotificationRegistry

	mu       sync.Mutex
	resident map[residentKey]struct{}
}

// NewAccumulator creates a new registry accumulator
func NewAccumulator(registry nftscan.NotificationRegistry) *Accumulator {
	return &Accumulator{
		registry: registry,
		resident: make(map[residentKey]struct{}),
	}
}

// EnsureRegistered makes sure an address is present in some
// ADDRESS_ACTIVITY bucket on the given chain. Registration is best-effort:
// every failure is logged and swallowed so the read path never observes it.
// The mutex spans the remote roundtrip to keep concurrent registrations
// from racing a bucket update.
func (a *Accumulator) EnsureRegistered(ctx context.Context, chain domain.Chain, address string) {
	normalized := domain.NormalizeAddress(address)
	if normalized == "" {
		return
	}
	key := residentKey{chain: chain, address: normalized}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.resident[key]; ok {
		return
	}

	subscriptions, err := a.registry.ListNotifications(ctx, chain, domain.NotifyTypeAddressActivity)
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to list notification buckets",
			zap.Int("chain", int(chain)),
			zap.String("address", normalized),
			zap.Error(err),
		)
		return
	}

	// First bucket with headroom accepts the address; full buckets are
	// immutable
	var current *domain.NotificationSubscription
	for i := range subscriptions {
		if !subscriptions[i].Full() {
			current = &subscriptions[i]
			break
		}
	}

	if current != nil && current.Contains(normalized) {
		a.markResident(chain, current.Addresses)
		a.resident[key] = struct{}{}
		return
	}

	updated := domain.NotificationSubscription{
		Chain:      chain,
		NotifyType: domain.NotifyTypeAddressActivity,
		Addresses:  []string{address},
	}
	if current != nil {
		updated.ID = current.ID
		updated.Addresses = append([]string{address}, current.Addresses...)
	}

	if err := a.registry.UpdateNotification(ctx, updated); err != nil {
		logger.ErrorCtx(ctx, "Failed to update notification bucket",
			zap.Int("chain", int(chain)),
			zap.String("address", normalized),
			zap.String("bucket_id", updated.ID),
			zap.Error(err),
		)
		return
	}

	logger.InfoCtx(ctx, "Registered address for activity alerts",
		zap.Int("chain", int(chain)),
		zap.String("address", normalized),
		zap.String("bucket_id", updated.ID),
		zap.Int("bucket_size", len(updated.Addresses)),
	)

	a.markResident(chain, updated.Addresses)
}

// markResident records addresses as known-registered. Callers must hold the
// mutex.
func (a *Accumulator) markResident(chain domain.Chain, addresses []string) {
	for _, addr := range addresses {
		a.resident[residentKey{chain: chain, address: domain.NormalizeAddress(addr)}] = struct{}{}
	}
}
