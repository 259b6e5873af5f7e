package aggregator

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-asset-aggregator/internal/cache"
	"github.com/feral-file/ff-asset-aggregator/internal/domain"
	"github.com/feral-file/ff-asset-aggregator/internal/logger"
	"github.com/feral-file/ff-asset-aggregator/internal/providers/nftscan"
	"github.com/feral-file/ff-asset-aggregator/internal/providers/subgraph"
)

// registerTimeout bounds background subscription registration triggered by
// a read query
const registerTimeout = 2 * time.Minute

// OwnerQuery parameterizes an assets-by-owner aggregation
type OwnerQuery struct {
	Owner string
	// Chain restricts the query to one chain; nil queries all supported chains
	Chain *domain.Chain
	// Token and TokenID filter the merged result set when non-empty
	Token   string
	TokenID string
	// OnlySubgraph skips the primary source ownership lookup
	OnlySubgraph bool
	// IsHardware enables the result cache for this query
	IsHardware bool
	// Limit is the page size; nil returns everything as a single page
	Limit *int
	Page  int
}

// TokenQuery parameterizes an assets-by-token aggregation
type TokenQuery struct {
	Chain   *domain.Chain
	Token   string
	TokenID string
	Limit   *int
	Page    int
}

// TransactionQuery parameterizes a transfer history lookup
type TransactionQuery struct {
	Chain   *domain.Chain
	Token   string
	TokenID string
}

// OwnerRegistrar registers addresses for activity alerts. Registration is
// best-effort and must never fail a read query.
//
//go:generate mockgen -source=engine.go -destination=../mocks/owner_registrar.go -package=mocks -mock_names=OwnerRegistrar=MockOwnerRegistrar
type OwnerRegistrar interface {
	EnsureRegistered(ctx context.Context, chain domain.Chain, address string)
}

// Engine merges ownership data from the primary indexing source and the
// transfer subgraph into paginated result sets. Every aggregation soft-fails
// to an empty page so readers never see provider errors.
type Engine struct {
	nftscan   nftscan.Client
	subgraph  subgraph.Client
	cache     *cache.ResultCache
	registrar OwnerRegistrar

	// fetchPool bounds concurrent provider calls per request
	fetchPool pond.ResultPool[[]domain.AssetRecord]
	// chunkPool runs nested batch lookups. Kept separate from fetchPool so
	// enrichment tasks waiting on their chunks cannot starve each other.
	chunkPool pond.ResultPool[[]domain.AssetRecord]
	// notifyPool runs fire-and-forget subscription registration
	notifyPool pond.Pool
}

// NewEngine creates a new aggregation engine. The registrar may be nil when
// subscription registration is disabled.
func NewEngine(
	nftscanClient nftscan.Client,
	subgraphClient subgraph.Client,
	resultCache *cache.ResultCache,
	registrar OwnerRegistrar,
) *Engine {
	return &Engine{
		nftscan:    nftscanClient,
		subgraph:   subgraphClient,
		cache:      resultCache,
		registrar:  registrar,
		fetchPool:  pond.NewResultPool[[]domain.AssetRecord](10),
		chunkPool:  pond.NewResultPool[[]domain.AssetRecord](10),
		notifyPool: pond.NewPool(10),
	}
}

// Close drains the engine's worker pools
func (e *Engine) Close() {
	e.fetchPool.StopAndWait()
	e.chunkPool.StopAndWait()
	e.notifyPool.StopAndWait()
}

// GetAssetsByOwner returns the merged, sorted, paginated holdings of an
// owner address. requestURL keys the result cache for hardware queries.
func (e *Engine) GetAssetsByOwner(ctx context.Context, query OwnerQuery, requestURL string) domain.AssetPage {
	if query.IsHardware {
		if page, ok := e.cache.GetPage(ctx, requestURL); ok {
			logger.InfoCtx(ctx, "Assets by owner served from cache",
				zap.String("url", requestURL),
				zap.Int("items", len(page.Items)),
			)
			return page
		}
	}

	chains, ok := resolveChains(query.Chain)
	if !ok {
		return domain.ZeroPage()
	}

	group := e.fetchPool.NewGroup()
	for _, chain := range chains {
		if !query.OnlySubgraph {
			group.SubmitErr(func() ([]domain.AssetRecord, error) {
				return e.nftscan.GetAssetsByOwner(ctx, chain, query.Owner)
			})
		}
		group.SubmitErr(func() ([]domain.AssetRecord, error) {
			return e.enrichOwnerAssets(ctx, chain, query.Owner)
		})
	}

	results, err := group.Wait()
	if err != nil {
		logger.ErrorCtx(ctx, "Assets by owner aggregation failed",
			zap.String("owner", query.Owner),
			zap.Error(err),
		)
		return domain.ZeroPage()
	}

	items := flatten(results)
	items = filterItems(items, query.Token, query.TokenID)
	sortItems(items)

	e.registerOwners(ownerRegistrations(items, query.Owner, true))

	page := paginate(items, query.Limit, query.Page)
	if query.IsHardware {
		e.cache.SetPage(ctx, requestURL, page)
	}
	return page
}

// GetAssetsByToken returns the merged, sorted, paginated holders of a token
// contract
func (e *Engine) GetAssetsByToken(ctx context.Context, query TokenQuery) domain.AssetPage {
	chains, ok := resolveChains(query.Chain)
	if !ok {
		return domain.ZeroPage()
	}

	group := e.fetchPool.NewGroup()
	for _, chain := range chains {
		group.SubmitErr(func() ([]domain.AssetRecord, error) {
			return e.nftscan.GetAssetsByContract(ctx, chain, query.Token)
		})
		group.SubmitErr(func() ([]domain.AssetRecord, error) {
			return e.enrichTokenAssets(ctx, chain, query.Token)
		})
	}

	results, err := group.Wait()
	if err != nil {
		logger.ErrorCtx(ctx, "Assets by token aggregation failed",
			zap.String("token", query.Token),
			zap.Error(err),
		)
		return domain.ZeroPage()
	}

	items := flatten(results)
	items = filterItems(items, "", query.TokenID)
	sortItems(items)

	e.registerOwners(ownerRegistrations(items, "", false))

	return paginate(items, query.Limit, query.Page)
}

// GetTransactions returns the merged transfer history of a token, most
// recent first. Failures degrade to an empty list.
func (e *Engine) GetTransactions(ctx context.Context, query TransactionQuery) []domain.TransferRecord {
	chains, ok := resolveChains(query.Chain)
	if !ok {
		return []domain.TransferRecord{}
	}

	var transfers []domain.TransferRecord
	for _, chain := range chains {
		chainTransfers, err := e.nftscan.GetTokenTransactions(ctx, chain, query.Token, query.TokenID)
		if err != nil {
			logger.ErrorCtx(ctx, "Transaction lookup failed",
				zap.String("token", query.Token),
				zap.Int("chain", int(chain)),
				zap.Error(err),
			)
			return []domain.TransferRecord{}
		}
		transfers = append(transfers, chainTransfers...)
	}

	sort.SliceStable(transfers, func(i, j int) bool {
		return transfers[i].Timestamp > transfers[j].Timestamp
	})

	if transfers == nil {
		transfers = []domain.TransferRecord{}
	}
	return transfers
}

// registration is a pending (chain, address) subscription
type registration struct {
	chain   domain.Chain
	address string
}

// registerOwners submits subscription registrations without blocking the
// read path
func (e *Engine) registerOwners(registrations []registration) {
	if e.registrar == nil {
		return
	}
	for _, r := range registrations {
		e.notifyPool.Submit(func() {
			ctx, cancel := context.WithTimeout(context.Background(), registerTimeout)
			defer cancel()
			e.registrar.EnsureRegistered(ctx, r.chain, r.address)
		})
	}
}

// ownerRegistrations collects the unique (chain, address) pairs a result
// set should register. Subgraph-discovered holder contracts are always
// included; the base owner is included when set and holdings exist on the
// chain.
func ownerRegistrations(items []domain.AssetRecord, baseOwner string, includeBase bool) []registration {
	seen := make(map[registration]struct{})
	var registrations []registration
	add := func(chain domain.Chain, address string) {
		if address == "" {
			return
		}
		r := registration{chain: chain, address: domain.NormalizeAddress(address)}
		if _, ok := seen[r]; ok {
			return
		}
		seen[r] = struct{}{}
		registrations = append(registrations, r)
	}

	for _, item := range items {
		if item.IsFromSubgraph || !includeBase {
			add(item.Chain, item.OwnerAddress)
		}
		if includeBase {
			add(item.Chain, baseOwner)
		}
	}
	return registrations
}

// resolveChains expands an optional chain filter into the chains to query.
// ok is false for explicitly requested unsupported chains.
func resolveChains(chain *domain.Chain) ([]domain.Chain, bool) {
	if chain == nil {
		return domain.SupportedChains, true
	}
	if !domain.IsSupportedChain(*chain) {
		return nil, false
	}
	return []domain.Chain{*chain}, true
}

// filterItems narrows the merged set to one contract and/or token id
func filterItems(items []domain.AssetRecord, token, tokenID string) []domain.AssetRecord {
	if token == "" && tokenID == "" {
		return items
	}
	filtered := make([]domain.AssetRecord, 0, len(items))
	for _, item := range items {
		if token != "" && domain.NormalizeAddress(item.ContractAddress) != domain.NormalizeAddress(token) {
			continue
		}
		if tokenID != "" && item.TokenID != tokenID {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// sortItems orders the merged set newest mint first, then demotes
// subgraph-discovered records below primary-source records. Both passes are
// stable so equal elements keep their relative order.
func sortItems(items []domain.AssetRecord) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].MintTimestamp > items[j].MintTimestamp
	})
	sort.SliceStable(items, func(i, j int) bool {
		return !items[i].IsFromSubgraph && items[j].IsFromSubgraph
	})
}

// paginate slices the merged set into the requested page. A nil limit
// returns everything as a single page.
func paginate(items []domain.AssetRecord, limit *int, page int) domain.AssetPage {
	if items == nil {
		items = []domain.AssetRecord{}
	}
	total := len(items)
	if limit == nil || *limit <= 0 {
		return domain.AssetPage{Total: total, TotalPage: 1, Items: items}
	}

	if page < 1 {
		page = 1
	}
	totalPage := int(math.Ceil(float64(total) / float64(*limit)))

	skip := (page - 1) * *limit
	if skip >= total {
		return domain.AssetPage{Total: total, TotalPage: totalPage, Items: []domain.AssetRecord{}}
	}
	end := min(skip+*limit, total)
	return domain.AssetPage{Total: total, TotalPage: totalPage, Items: items[skip:end]}
}

func flatten(results [][]domain.AssetRecord) []domain.AssetRecord {
	var items []domain.AssetRecord
	for _, result := range results {
		items = append(items, result...)
	}
	return items
}
