package aggregator_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-asset-aggregator/internal/adapter"
	"github.com/feral-file/ff-asset-aggregator/internal/aggregator"
	"github.com/feral-file/ff-asset-aggregator/internal/cache"
	"github.com/feral-file/ff-asset-aggregator/internal/domain"
	"github.com/feral-file/ff-asset-aggregator/internal/logger"
	"github.com/feral-file/ff-asset-aggregator/internal/mocks"
	"github.com/feral-file/ff-asset-aggregator/internal/providers/subgraph"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// fakeRegistrar records registrations without touching a remote registry
type fakeRegistrar struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeRegistrar) EnsureRegistered(_ context.Context, chain domain.Chain, address string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, address)
}

func (f *fakeRegistrar) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// testEngineMocks contains all the mocks needed for testing the engine
type testEngineMocks struct {
	ctrl      *gomock.Controller
	nftscan   *mocks.MockNFTScanClient
	subgraph  *mocks.MockSubgraphClient
	registrar *fakeRegistrar
	cache     *cache.ResultCache
	engine    *aggregator.Engine
}

func setupTestEngine(t *testing.T) *testEngineMocks {
	ctrl := gomock.NewController(t)

	tm := &testEngineMocks{
		ctrl:      ctrl,
		nftscan:   mocks.NewMockNFTScanClient(ctrl),
		subgraph:  mocks.NewMockSubgraphClient(ctrl),
		registrar: &fakeRegistrar{},
		cache: cache.NewResultCache(
			cache.NewMemoryStore(adapter.NewClock()),
			adapter.NewJSON(),
			time.Hour,
		),
	}
	tm.engine = aggregator.NewEngine(tm.nftscan, tm.subgraph, tm.cache, tm.registrar)
	t.Cleanup(tm.engine.Close)

	return tm
}

func chainPtr(c domain.Chain) *domain.Chain {
	return &c
}

func intPtr(n int) *int {
	return &n
}

func TestEngine_GetAssetsByOwner_SortOrder(t *testing.T) {
	tm := setupTestEngine(t)
	owner := "0x1111111111111111111111111111111111111111"

	// Primary source knows A (mint 100) and C (mint 200); the subgraph
	// contributes B (mint 100). Expected order: newest primary first, all
	// subgraph records demoted to the tail.
	tm.nftscan.EXPECT().
		GetAssetsByOwner(gomock.Any(), domain.ChainEthereum, owner).
		Return([]domain.AssetRecord{
			{Chain: domain.ChainEthereum, ContractAddress: "0xa", TokenID: "1", MintTimestamp: 100, OwnerAddress: owner},
			{Chain: domain.ChainEthereum, ContractAddress: "0xc", TokenID: "3", MintTimestamp: 200, OwnerAddress: owner},
		}, nil)

	tm.subgraph.EXPECT().
		GetAssetsByOwner(gomock.Any(), domain.ChainEthereum, owner).
		Return([]subgraph.Asset{
			{Token: "0xb", TokenID: "2", To: owner, HolderContract: "0xdevice", ToCount: "1", LastUpdateBlockTimestamp: "500"},
		}, nil)

	tm.nftscan.EXPECT().
		GetAssetsInBatches(gomock.Any(), domain.ChainEthereum, []domain.AssetKey{{ContractAddress: "0xb", TokenID: "2"}}).
		Return([]domain.AssetRecord{
			{Chain: domain.ChainEthereum, ContractAddress: "0xb", TokenID: "2", MintTimestamp: 100},
		}, nil)

	page := tm.engine.GetAssetsByOwner(context.Background(), aggregator.OwnerQuery{
		Owner: owner,
		Chain: chainPtr(domain.ChainEthereum),
	}, "/api/nft/assets/owner?owner="+owner)

	require.Len(t, page.Items, 3)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.TotalPage)
	assert.Equal(t, "0xc", page.Items[0].ContractAddress)
	assert.Equal(t, "0xa", page.Items[1].ContractAddress)
	assert.Equal(t, "0xb", page.Items[2].ContractAddress)

	// The subgraph record carries the holder contract as owner and the
	// queried address as owner base
	assert.True(t, page.Items[2].IsFromSubgraph)
	assert.Equal(t, "0xdevice", page.Items[2].OwnerAddress)
	assert.Equal(t, owner, page.Items[2].OwnerBaseAddress)
	assert.Equal(t, int64(500), page.Items[2].SubgraphBlockTimestamp)
}

func TestEngine_GetAssetsByOwner_Pagination(t *testing.T) {
	owner := "0x1111111111111111111111111111111111111111"

	primary := make([]domain.AssetRecord, 3)
	for i := range primary {
		primary[i] = domain.AssetRecord{
			Chain:           domain.ChainEthereum,
			ContractAddress: "0xprimary",
			TokenID:         string(rune('1' + i)),
			MintTimestamp:   int64(300 - i),
		}
	}

	subgraphAssets := make([]subgraph.Asset, 4)
	enriched := make([]domain.AssetRecord, 4)
	keys := make([]domain.AssetKey, 4)
	for i := range subgraphAssets {
		tokenID := string(rune('5' + i))
		subgraphAssets[i] = subgraph.Asset{
			Token: "0xsub", TokenID: tokenID, To: owner,
			HolderContract: "0xdevice", ToCount: "1", LastUpdateBlockTimestamp: "100",
		}
		enriched[i] = domain.AssetRecord{
			Chain: domain.ChainEthereum, ContractAddress: "0xsub", TokenID: tokenID, MintTimestamp: int64(100 - i),
		}
		keys[i] = domain.AssetKey{ContractAddress: "0xsub", TokenID: tokenID}
	}

	run := func(t *testing.T, pageNum int) domain.AssetPage {
		tm := setupTestEngine(t)
		tm.nftscan.EXPECT().
			GetAssetsByOwner(gomock.Any(), domain.ChainEthereum, owner).
			Return(primary, nil)
		tm.subgraph.EXPECT().
			GetAssetsByOwner(gomock.Any(), domain.ChainEthereum, owner).
			Return(subgraphAssets, nil)
		tm.nftscan.EXPECT().
			GetAssetsInBatches(gomock.Any(), domain.ChainEthereum, keys).
			Return(enriched, nil)

		return tm.engine.GetAssetsByOwner(context.Background(), aggregator.OwnerQuery{
			Owner: owner,
			Chain: chainPtr(domain.ChainEthereum),
			Limit: intPtr(5),
			Page:  pageNum,
		}, "/test")
	}

	first := run(t, 1)
	assert.Equal(t, 7, first.Total)
	assert.Equal(t, 2, first.TotalPage)
	require.Len(t, first.Items, 5)

	second := run(t, 2)
	assert.Equal(t, 7, second.Total)
	assert.Equal(t, 2, second.TotalPage)
	require.Len(t, second.Items, 2)

	// Pages must not overlap: the same query is deterministic
	for _, a := range first.Items {
		for _, b := range second.Items {
			assert.False(t, a.ContractAddress == b.ContractAddress && a.TokenID == b.TokenID)
		}
	}
}

func TestEngine_GetAssetsByOwner_UnsupportedChain(t *testing.T) {
	tm := setupTestEngine(t)

	page := tm.engine.GetAssetsByOwner(context.Background(), aggregator.OwnerQuery{
		Owner: "0xowner",
		Chain: chainPtr(domain.Chain(999)),
	}, "/test")

	assert.Equal(t, domain.ZeroPage(), page)
}

func TestEngine_GetAssetsByOwner_ProviderFailureSoftFails(t *testing.T) {
	tm := setupTestEngine(t)
	owner := "0xowner"

	tm.nftscan.EXPECT().
		GetAssetsByOwner(gomock.Any(), domain.ChainEthereum, owner).
		Return(nil, errors.New("upstream down"))
	tm.subgraph.EXPECT().
		GetAssetsByOwner(gomock.Any(), domain.ChainEthereum, owner).
		Return([]subgraph.Asset{}, nil).
		AnyTimes()

	page := tm.engine.GetAssetsByOwner(context.Background(), aggregator.OwnerQuery{
		Owner: owner,
		Chain: chainPtr(domain.ChainEthereum),
	}, "/test")

	assert.Equal(t, domain.ZeroPage(), page)
}

func TestEngine_GetAssetsByOwner_OnlySubgraph(t *testing.T) {
	tm := setupTestEngine(t)
	owner := "0xowner"

	// No primary ownership lookup is made
	tm.subgraph.EXPECT().
		GetAssetsByOwner(gomock.Any(), domain.ChainEthereum, owner).
		Return([]subgraph.Asset{
			{Token: "0xb", TokenID: "2", To: owner, HolderContract: "0xdevice", ToCount: "2", LastUpdateBlockTimestamp: "500"},
		}, nil)
	tm.nftscan.EXPECT().
		GetAssetsInBatches(gomock.Any(), domain.ChainEthereum, gomock.Any()).
		Return([]domain.AssetRecord{
			{Chain: domain.ChainEthereum, ContractAddress: "0xb", TokenID: "2", MintTimestamp: 100, OwnedCount: 1},
		}, nil)

	page := tm.engine.GetAssetsByOwner(context.Background(), aggregator.OwnerQuery{
		Owner:        owner,
		Chain:        chainPtr(domain.ChainEthereum),
		OnlySubgraph: true,
	}, "/test")

	require.Len(t, page.Items, 1)
	// The subgraph's held count overrides the primary source amount
	assert.Equal(t, 2, page.Items[0].OwnedCount)
}

func TestEngine_GetAssetsByOwner_TokenFilter(t *testing.T) {
	tm := setupTestEngine(t)
	owner := "0xowner"

	tm.nftscan.EXPECT().
		GetAssetsByOwner(gomock.Any(), domain.ChainEthereum, owner).
		Return([]domain.AssetRecord{
			{Chain: domain.ChainEthereum, ContractAddress: "0xAAAA", TokenID: "1", MintTimestamp: 100},
			{Chain: domain.ChainEthereum, ContractAddress: "0xbbbb", TokenID: "2", MintTimestamp: 200},
		}, nil)
	tm.subgraph.EXPECT().
		GetAssetsByOwner(gomock.Any(), domain.ChainEthereum, owner).
		Return([]subgraph.Asset{}, nil)

	page := tm.engine.GetAssetsByOwner(context.Background(), aggregator.OwnerQuery{
		Owner: owner,
		Chain: chainPtr(domain.ChainEthereum),
		Token: "0xaaaa",
	}, "/test")

	require.Len(t, page.Items, 1)
	assert.Equal(t, "0xAAAA", page.Items[0].ContractAddress)
}

func TestEngine_GetAssetsByOwner_HardwareCache(t *testing.T) {
	tm := setupTestEngine(t)
	owner := "0x1111111111111111111111111111111111111111"
	url := "/api/nft/assets/owner?owner=" + owner + "&isHardware=true"

	// Providers are hit exactly once; the second query is served from cache
	tm.nftscan.EXPECT().
		GetAssetsByOwner(gomock.Any(), domain.ChainEthereum, owner).
		Return([]domain.AssetRecord{
			{Chain: domain.ChainEthereum, ContractAddress: "0xa", TokenID: "1", MintTimestamp: 100},
		}, nil).
		Times(1)
	tm.subgraph.EXPECT().
		GetAssetsByOwner(gomock.Any(), domain.ChainEthereum, owner).
		Return([]subgraph.Asset{}, nil).
		Times(1)

	query := aggregator.OwnerQuery{
		Owner:      owner,
		Chain:      chainPtr(domain.ChainEthereum),
		IsHardware: true,
	}

	first := tm.engine.GetAssetsByOwner(context.Background(), query, url)
	second := tm.engine.GetAssetsByOwner(context.Background(), query, url)

	assert.Equal(t, first, second)
	require.Len(t, second.Items, 1)
}

func TestEngine_GetAssetsByOwner_RegistersOwners(t *testing.T) {
	tm := setupTestEngine(t)
	owner := "0x1111111111111111111111111111111111111111"

	tm.nftscan.EXPECT().
		GetAssetsByOwner(gomock.Any(), domain.ChainEthereum, owner).
		Return([]domain.AssetRecord{
			{Chain: domain.ChainEthereum, ContractAddress: "0xa", TokenID: "1", MintTimestamp: 100, OwnerAddress: owner},
		}, nil)
	tm.subgraph.EXPECT().
		GetAssetsByOwner(gomock.Any(), domain.ChainEthereum, owner).
		Return([]subgraph.Asset{
			{Token: "0xb", TokenID: "2", To: owner, HolderContract: "0xdevice", ToCount: "1", LastUpdateBlockTimestamp: "500"},
		}, nil)
	tm.nftscan.EXPECT().
		GetAssetsInBatches(gomock.Any(), domain.ChainEthereum, gomock.Any()).
		Return([]domain.AssetRecord{
			{Chain: domain.ChainEthereum, ContractAddress: "0xb", TokenID: "2", MintTimestamp: 50},
		}, nil)

	tm.engine.GetAssetsByOwner(context.Background(), aggregator.OwnerQuery{
		Owner: owner,
		Chain: chainPtr(domain.ChainEthereum),
	}, "/test")

	// Registration is fire-and-forget; wait for it to land
	assert.Eventually(t, func() bool {
		calls := tm.registrar.snapshot()
		return len(calls) == 2
	}, time.Second, 10*time.Millisecond)

	calls := tm.registrar.snapshot()
	assert.Contains(t, calls, "0xdevice")
	assert.Contains(t, calls, owner)
}

func TestEngine_GetAssetsByToken(t *testing.T) {
	tm := setupTestEngine(t)
	token := "0xcccccccccccccccccccccccccccccccccccccccc"

	tm.nftscan.EXPECT().
		GetAssetsByContract(gomock.Any(), domain.ChainEthereum, token).
		Return([]domain.AssetRecord{
			{Chain: domain.ChainEthereum, ContractAddress: token, TokenID: "1", MintTimestamp: 100, OwnerAddress: "0xholder1"},
		}, nil)
	tm.subgraph.EXPECT().
		GetAssetsByToken(gomock.Any(), domain.ChainEthereum, token).
		Return([]subgraph.Asset{
			{Token: token, TokenID: "2", To: "0xbase", HolderContract: "0xdevice", ToCount: "1", LastUpdateBlockTimestamp: "700"},
		}, nil)
	tm.nftscan.EXPECT().
		GetAssetsInBatches(gomock.Any(), domain.ChainEthereum, []domain.AssetKey{{ContractAddress: token, TokenID: "2"}}).
		Return([]domain.AssetRecord{
			{Chain: domain.ChainEthereum, ContractAddress: token, TokenID: "2", MintTimestamp: 200},
		}, nil)

	page := tm.engine.GetAssetsByToken(context.Background(), aggregator.TokenQuery{
		Chain: chainPtr(domain.ChainEthereum),
		Token: token,
	})

	require.Len(t, page.Items, 2)
	// Subgraph record is demoted despite its newer mint timestamp
	assert.Equal(t, "1", page.Items[0].TokenID)
	assert.Equal(t, "2", page.Items[1].TokenID)
	assert.True(t, page.Items[1].IsFromSubgraph)
	assert.Equal(t, int64(700), page.Items[1].SubgraphBlockTimestamp)
	assert.Equal(t, "0xbase", page.Items[1].OwnerBaseAddress)
}

func TestEngine_GetTransactions(t *testing.T) {
	tm := setupTestEngine(t)
	token := "0xcccc"

	tm.nftscan.EXPECT().
		GetTokenTransactions(gomock.Any(), domain.ChainEthereum, token, "1").
		Return([]domain.TransferRecord{
			{Chain: domain.ChainEthereum, TxHash: "0xold", Timestamp: 100},
			{Chain: domain.ChainEthereum, TxHash: "0xnew", Timestamp: 300},
		}, nil)

	transfers := tm.engine.GetTransactions(context.Background(), aggregator.TransactionQuery{
		Chain:   chainPtr(domain.ChainEthereum),
		Token:   token,
		TokenID: "1",
	})

	require.Len(t, transfers, 2)
	assert.Equal(t, "0xnew", transfers[0].TxHash)
	assert.Equal(t, "0xold", transfers[1].TxHash)
}

func TestEngine_GetTransactions_FailureReturnsEmpty(t *testing.T) {
	tm := setupTestEngine(t)

	tm.nftscan.EXPECT().
		GetTokenTransactions(gomock.Any(), domain.ChainEthereum, "0xcccc", "1").
		Return(nil, errors.New("upstream down"))

	transfers := tm.engine.GetTransactions(context.Background(), aggregator.TransactionQuery{
		Chain:   chainPtr(domain.ChainEthereum),
		Token:   "0xcccc",
		TokenID: "1",
	})

	assert.NotNil(t, transfers)
	assert.Empty(t, transfers)
}
