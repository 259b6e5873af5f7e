package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-asset-aggregator/internal/aggregator"
	"github.com/feral-file/ff-asset-aggregator/internal/api/rest/dto"
	"github.com/feral-file/ff-asset-aggregator/internal/domain"
)

// Aggregator is the read-side query surface the handlers depend on
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Aggregator=MockAggregator,TransferNotifier=MockTransferNotifier,CacheInspector=MockCacheInspector,Handler=MockAPIHandler
type Aggregator interface {
	// GetAssetsByOwner returns merged holdings of an owner; requestURL keys
	// the result cache for hardware queries
	GetAssetsByOwner(ctx context.Context, query aggregator.OwnerQuery, requestURL string) domain.AssetPage

	// GetAssetsByToken returns merged holders of a token contract
	GetAssetsByToken(ctx context.Context, query aggregator.TokenQuery) domain.AssetPage

	// GetTransactions returns the merged transfer history of a token
	GetTransactions(ctx context.Context, query aggregator.TransactionQuery) []domain.TransferRecord
}

// TransferNotifier accepts inbound transfer events for background
// processing
type TransferNotifier interface {
	Enqueue(activity domain.TransferActivity)
}

// CacheInspector exposes the result cache's key space for operations
// tooling
type CacheInspector interface {
	HardwareKeys(ctx context.Context) []string
	AllKeys(ctx context.Context) []string
}

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetAssetsByOwner retrieves merged assets held by an owner address
	// GET /api/nft/assets/owner?owner=<address>&chain=<id>&token=<contract>&tokenId=<id>&onlySubgraph=<bool>&isHardware=<bool>&limit=<limit>&page=<page>
	GetAssetsByOwner(c *gin.Context)

	// GetAssetsByToken retrieves merged assets of a token contract
	// GET /api/nft/assets/token?token=<contract>&chain=<id>&tokenId=<id>&limit=<limit>&page=<page>
	GetAssetsByToken(c *gin.Context)

	// GetTransactions retrieves the transfer history of a token
	// GET /api/nft/transactions?token=<contract>&tokenId=<id>&chain=<id>
	GetTransactions(c *gin.Context)

	// Notify accepts a transfer event and processes it in the background
	// POST /api/nft/notify
	Notify(c *gin.Context)

	// GetHardwareCacheKeys lists the hardware result cache keys
	// GET /api/cache/keys/hardware
	GetHardwareCacheKeys(c *gin.Context)

	// GetCacheKeys lists all result cache keys
	// GET /api/cache/keys
	GetCacheKeys(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	aggregator Aggregator
	notifier   TransferNotifier
	cache      CacheInspector
}

// NewHandler creates a new REST API handler
func NewHandler(agg Aggregator, notifier TransferNotifier, cacheInspector CacheInspector) Handler {
	return &handler{
		aggregator: agg,
		notifier:   notifier,
		cache:      cacheInspector,
	}
}

// GetAssetsByOwner retrieves merged assets held by an owner address
func (h *handler) GetAssetsByOwner(c *gin.Context) {
	query, err := ParseOwnerQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	page := h.aggregator.GetAssetsByOwner(c.Request.Context(), query, c.Request.URL.RequestURI())
	c.JSON(http.StatusOK, dto.NewAssetPage(page))
}

// GetAssetsByToken retrieves merged assets of a token contract
func (h *handler) GetAssetsByToken(c *gin.Context) {
	query, err := ParseTokenQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	page := h.aggregator.GetAssetsByToken(c.Request.Context(), query)
	c.JSON(http.StatusOK, dto.NewAssetPage(page))
}

// GetTransactions retrieves the transfer history of a token
func (h *handler) GetTransactions(c *gin.Context) {
	query, err := ParseTransactionQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	transfers := h.aggregator.GetTransactions(c.Request.Context(), query)
	c.JSON(http.StatusOK, dto.NewAssetTransactions(transfers))
}

// Notify accepts a transfer event and processes it in the background. The
// request is acknowledged immediately; block waiting and delivery happen
// asynchronously.
func (h *handler) Notify(c *gin.Context) {
	var request dto.NotifyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "Invalid notify payload", err.Error())
		return
	}

	activity, err := request.ToActivity()
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	h.notifier.Enqueue(activity)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// GetHardwareCacheKeys lists the hardware result cache keys
func (h *handler) GetHardwareCacheKeys(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"keys": h.cache.HardwareKeys(c.Request.Context())})
}

// GetCacheKeys lists all result cache keys
func (h *handler) GetCacheKeys(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"keys": h.cache.AllKeys(c.Request.Context())})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UnixMilli(),
	})
}
