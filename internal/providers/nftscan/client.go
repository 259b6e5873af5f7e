package nftscan

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/feral-file/ff-asset-aggregator/internal/adapter"
	"github.com/feral-file/ff-asset-aggregator/internal/domain"
	"github.com/feral-file/ff-asset-aggregator/internal/ratelimit"
)

const (
	// apiKeyHeader carries the NFTScan API key on every request
	apiKeyHeader = "X-API-KEY"

	// filterPageLimit is the page size for the assets-by-filters endpoint
	filterPageLimit = 100
)

// Client defines the interface for the primary indexing API to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/nftscan_client.go -package=mocks -mock_names=Client=MockNFTScanClient,NotificationRegistry=MockNotificationRegistry
type Client interface {
	// GetAssetsByOwner returns all assets held by an owner address on one chain
	GetAssetsByOwner(ctx context.Context, chain domain.Chain, owner string) ([]domain.AssetRecord, error)

	// GetAssetsByContract returns assets of a token contract with collection
	// metadata attached
	GetAssetsByContract(ctx context.Context, chain domain.Chain, contractAddress string) ([]domain.AssetRecord, error)

	// GetAssetsInBatches resolves a list of (contract, tokenId) keys into
	// enriched asset records. The result preserves the order of keys; keys
	// the API does not know are dropped.
	GetAssetsInBatches(ctx context.Context, chain domain.Chain, keys []domain.AssetKey) ([]domain.AssetRecord, error)

	// GetTokenTransactions returns the transfer history of a token
	GetTokenTransactions(ctx context.Context, chain domain.Chain, contractAddress, tokenID string) ([]domain.TransferRecord, error)
}

// NotificationRegistry is the remote store of activity-alert subscriptions
// kept on the primary indexing API
type NotificationRegistry interface {
	// ListNotifications returns every subscription bucket of the given type
	// on one chain, following cursors until exhausted
	ListNotifications(ctx context.Context, chain domain.Chain, notifyType domain.NotifyType) ([]domain.NotificationSubscription, error)

	// UpdateNotification upserts a subscription bucket. A subscription with
	// no ID creates a fresh bucket.
	UpdateNotification(ctx context.Context, subscription domain.NotificationSubscription) error
}

// apiResponse is the NFTScan envelope around every payload
type apiResponse[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

// collectionAssets groups owned assets under their collection
type collectionAssets struct {
	ContractAddress string      `json:"contract_address"`
	ContractName    string      `json:"contract_name"`
	Symbol          string      `json:"symbol"`
	Description     string      `json:"description"`
	ItemsTotal      int         `json:"items_total"`
	OwnsTotal       int         `json:"owns_total"`
	Assets          []wireAsset `json:"assets"`
}

// wireAsset is a single asset as returned by NFTScan
type wireAsset struct {
	ContractAddress string `json:"contract_address"`
	ContractName    string `json:"contract_name"`
	TokenID         string `json:"token_id"`
	ErcType         string `json:"erc_type"`
	Amount          string `json:"amount"`
	Minter          string `json:"minter"`
	Owner           string `json:"owner"`
	MintTimestamp   int64  `json:"mint_timestamp"`
	TokenURI        string `json:"token_uri"`
	MetadataJSON    string `json:"metadata_json"`
	Name            string `json:"name"`
	ContentURI      string `json:"content_uri"`
	ImageURI        string `json:"image_uri"`
	NFTScanURI      string `json:"nftscan_uri"`
	SmallNFTScanURI string `json:"small_nftscan_uri"`
	ExternalLink    string `json:"external_link"`
}

// wireCollection is collection metadata as returned by NFTScan
type wireCollection struct {
	ContractAddress string `json:"contract_address"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	Description     string `json:"description"`
	ItemsTotal      int    `json:"items_total"`
}

// wireTransaction is a single transfer as returned by NFTScan
type wireTransaction struct {
	Hash            string  `json:"hash"`
	BlockNumber     uint64  `json:"block_number"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	ContractAddress string  `json:"contract_address"`
	TokenID         string  `json:"token_id"`
	ErcType         string  `json:"erc_type"`
	Amount          string  `json:"amount"`
	TradePrice      float64 `json:"trade_price"`
	TradeSymbol     string  `json:"trade_symbol"`
	TradeSymbolAddr string  `json:"trade_symbol_address"`
	Timestamp       int64   `json:"timestamp"`
}

// pagedContent wraps cursor-paginated list payloads
type pagedContent[T any] struct {
	Content []T    `json:"content"`
	Next    string `json:"next"`
	Total   int    `json:"total"`
}

// wireNotification is a subscription bucket as stored by the remote registry
type wireNotification struct {
	ID           string   `json:"id,omitempty"`
	Chain        int      `json:"chain"`
	NotifyType   string   `json:"notify_type"`
	NotifyParams []string `json:"notify_params"`
}

// NFTScanClient implements Client and NotificationRegistry against the
// per-chain NFTScan REST endpoints, throttled through a shared rate limit
// proxy.
type NFTScanClient struct {
	httpClient adapter.HTTPClient
	proxy      ratelimit.Proxy
	baseURLs   map[domain.Chain]string
	apiKey     string
	json       adapter.JSON
}

// NewClient creates a new NFTScan client. The proxy may be nil, in which
// case requests are not throttled.
func NewClient(
	httpClient adapter.HTTPClient,
	proxy ratelimit.Proxy,
	baseURLs map[domain.Chain]string,
	apiKey string,
	json adapter.JSON,
) *NFTScanClient {
	return &NFTScanClient{
		httpClient: httpClient,
		proxy:      proxy,
		baseURLs:   baseURLs,
		apiKey:     apiKey,
		json:       json,
	}
}

// GetAssetsByOwner returns all assets held by an owner address on one chain
func (c *NFTScanClient) GetAssetsByOwner(ctx context.Context, chain domain.Chain, owner string) ([]domain.AssetRecord, error) {
	endpoint, err := c.endpoint(chain, "/api/v2/account/own/all/"+url.PathEscape(owner))
	if err != nil {
		return nil, err
	}
	endpoint += "?erc_type=&show_attribute=true"

	groups, err := ratelimit.Request(ctx, c.proxy, func(ctx context.Context) ([]collectionAssets, error) {
		var response apiResponse[[]collectionAssets]
		if err := c.httpClient.Get(ctx, endpoint, c.headers(), &response); err != nil {
			return nil, err
		}
		if err := checkCode(response.Code, response.Msg); err != nil {
			return nil, err
		}
		return response.Data, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assets by owner: %w", err)
	}

	var records []domain.AssetRecord
	for _, group := range groups {
		for _, asset := range group.Assets {
			record := assetToRecord(chain, asset)
			record.ContractName = firstNonEmpty(asset.ContractName, group.ContractName)
			record.Symbol = group.Symbol
			record.Description = group.Description
			record.TotalSupply = group.ItemsTotal
			records = append(records, record)
		}
	}
	return records, nil
}

// GetAssetsByContract returns assets of a token contract with collection
// metadata attached
func (c *NFTScanClient) GetAssetsByContract(ctx context.Context, chain domain.Chain, contractAddress string) ([]domain.AssetRecord, error) {
	assets, err := c.queryAssetsByFilters(ctx, chain, []string{contractAddress})
	if err != nil {
		return nil, err
	}

	collections, err := c.queryCollections(ctx, chain, []string{contractAddress})
	if err != nil {
		return nil, err
	}

	return joinCollections(chain, assets, collections), nil
}

// GetAssetsInBatches resolves a list of (contract, tokenId) keys into
// enriched asset records
func (c *NFTScanClient) GetAssetsInBatches(ctx context.Context, chain domain.Chain, keys []domain.AssetKey) ([]domain.AssetRecord, error) {
	if len(keys) == 0 {
		return []domain.AssetRecord{}, nil
	}

	type batchItem struct {
		ContractAddress string `json:"contract_address"`
		TokenID         string `json:"token_id"`
	}
	items := make([]batchItem, 0, len(keys))
	contracts := make([]string, 0, len(keys))
	for _, key := range keys {
		items = append(items, batchItem{ContractAddress: key.ContractAddress, TokenID: key.TokenID})
		contracts = append(contracts, key.ContractAddress)
	}

	endpoint, err := c.endpoint(chain, "/api/v2/assets/batch")
	if err != nil {
		return nil, err
	}

	assets, err := ratelimit.Request(ctx, c.proxy, func(ctx context.Context) ([]wireAsset, error) {
		body, err := c.json.Marshal(map[string]interface{}{
			"contract_address_with_token_id_list": items,
			"show_attribute":                      true,
		})
		if err != nil {
			return nil, err
		}
		return c.postAssets(ctx, endpoint, body)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assets in batches: %w", err)
	}

	collections, err := c.queryCollections(ctx, chain, contracts)
	if err != nil {
		return nil, err
	}

	records := joinCollections(chain, assets, collections)
	return orderByKeys(records, keys), nil
}

// GetTokenTransactions returns the transfer history of a token
func (c *NFTScanClient) GetTokenTransactions(ctx context.Context, chain domain.Chain, contractAddress, tokenID string) ([]domain.TransferRecord, error) {
	path := "/api/v2/transactions/" + url.PathEscape(contractAddress)
	if tokenID != "" {
		path += "/" + url.PathEscape(tokenID)
	}
	endpoint, err := c.endpoint(chain, path)
	if err != nil {
		return nil, err
	}

	var transfers []domain.TransferRecord
	cursor := ""
	for {
		page, err := ratelimit.Request(ctx, c.proxy, func(ctx context.Context) (pagedContent[wireTransaction], error) {
			pageURL := endpoint + "?limit=100"
			if cursor != "" {
				pageURL += "&cursor=" + url.QueryEscape(cursor)
			}
			var response apiResponse[pagedContent[wireTransaction]]
			if err := c.httpClient.Get(ctx, pageURL, c.headers(), &response); err != nil {
				return pagedContent[wireTransaction]{}, err
			}
			if err := checkCode(response.Code, response.Msg); err != nil {
				return pagedContent[wireTransaction]{}, err
			}
			return response.Data, nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch token transactions: %w", err)
		}

		for _, tx := range page.Content {
			transfers = append(transfers, domain.TransferRecord{
				Chain:           chain,
				ContractAddress: tx.ContractAddress,
				TokenID:         tx.TokenID,
				TxHash:          tx.Hash,
				BlockNumber:     tx.BlockNumber,
				FromAddress:     tx.From,
				ToAddress:       tx.To,
				Amount:          tx.Amount,
				TradePrice:      tx.TradePrice,
				TradeSymbol:     tx.TradeSymbol,
				TradeSymbolAddr: tx.TradeSymbolAddr,
				ErcType:         domain.ErcType(tx.ErcType),
				Timestamp:       millisToSeconds(tx.Timestamp),
			})
		}

		if page.Next == "" {
			break
		}
		cursor = page.Next
	}

	return transfers, nil
}

// ListNotifications returns every subscription bucket of the given type on
// one chain, following cursors until exhausted
func (c *NFTScanClient) ListNotifications(ctx context.Context, chain domain.Chain, notifyType domain.NotifyType) ([]domain.NotificationSubscription, error) {
	endpoint, err := c.endpoint(chain, "/api/v2/notify/list")
	if err != nil {
		return nil, err
	}

	var subscriptions []domain.NotificationSubscription
	cursor := ""
	for {
		page, err := ratelimit.Request(ctx, c.proxy, func(ctx context.Context) (pagedContent[wireNotification], error) {
			body, err := c.json.Marshal(map[string]interface{}{
				"chain":       int(chain),
				"notify_type": string(notifyType),
				"cursor":      cursor,
				"limit":       100,
			})
			if err != nil {
				return pagedContent[wireNotification]{}, err
			}

			responseBody, err := c.httpClient.Post(ctx, endpoint, "application/json", c.headers(), bytes.NewReader(body))
			if err != nil {
				return pagedContent[wireNotification]{}, err
			}

			var response apiResponse[pagedContent[wireNotification]]
			if err := c.json.Unmarshal(responseBody, &response); err != nil {
				return pagedContent[wireNotification]{}, err
			}
			if err := checkCode(response.Code, response.Msg); err != nil {
				return pagedContent[wireNotification]{}, err
			}
			return response.Data, nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list notifications: %w", err)
		}

		for _, n := range page.Content {
			subscriptions = append(subscriptions, domain.NotificationSubscription{
				ID:         n.ID,
				Chain:      domain.Chain(n.Chain),
				NotifyType: domain.NotifyType(n.NotifyType),
				Addresses:  n.NotifyParams,
			})
		}

		if page.Next == "" {
			break
		}
		cursor = page.Next
	}

	return subscriptions, nil
}

// UpdateNotification upserts a subscription bucket
func (c *NFTScanClient) UpdateNotification(ctx context.Context, subscription domain.NotificationSubscription) error {
	endpoint, err := c.endpoint(subscription.Chain, "/api/v2/notify/update")
	if err != nil {
		return err
	}

	_, err = ratelimit.Request(ctx, c.proxy, func(ctx context.Context) (struct{}, error) {
		body, err := c.json.Marshal(wireNotification{
			ID:           subscription.ID,
			Chain:        int(subscription.Chain),
			NotifyType:   string(subscription.NotifyType),
			NotifyParams: subscription.Addresses,
		})
		if err != nil {
			return struct{}{}, err
		}

		responseBody, err := c.httpClient.Post(ctx, endpoint, "application/json", c.headers(), bytes.NewReader(body))
		if err != nil {
			return struct{}{}, err
		}

		var response apiResponse[interface{}]
		if err := c.json.Unmarshal(responseBody, &response); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, checkCode(response.Code, response.Msg)
	})
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}

// queryAssetsByFilters fetches assets for a set of contracts via the filter
// endpoint
func (c *NFTScanClient) queryAssetsByFilters(ctx context.Context, chain domain.Chain, contracts []string) ([]wireAsset, error) {
	endpoint, err := c.endpoint(chain, "/api/v2/assets/filters")
	if err != nil {
		return nil, err
	}

	assets, err := ratelimit.Request(ctx, c.proxy, func(ctx context.Context) ([]wireAsset, error) {
		body, err := c.json.Marshal(map[string]interface{}{
			"limit":                 filterPageLimit,
			"contract_address_list": contracts,
		})
		if err != nil {
			return nil, err
		}

		responseBody, err := c.httpClient.Post(ctx, endpoint, "application/json", c.headers(), bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		var response apiResponse[pagedContent[wireAsset]]
		if err := c.json.Unmarshal(responseBody, &response); err != nil {
			return nil, err
		}
		if err := checkCode(response.Code, response.Msg); err != nil {
			return nil, err
		}
		return response.Data.Content, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assets by filters: %w", err)
	}
	return assets, nil
}

// queryCollections fetches collection metadata for a set of contracts
func (c *NFTScanClient) queryCollections(ctx context.Context, chain domain.Chain, contracts []string) ([]wireCollection, error) {
	endpoint, err := c.endpoint(chain, "/api/v2/collections/filters")
	if err != nil {
		return nil, err
	}

	collections, err := ratelimit.Request(ctx, c.proxy, func(ctx context.Context) ([]wireCollection, error) {
		body, err := c.json.Marshal(map[string]interface{}{
			"contract_address_list": contracts,
		})
		if err != nil {
			return nil, err
		}

		responseBody, err := c.httpClient.Post(ctx, endpoint, "application/json", c.headers(), bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		var response apiResponse[[]wireCollection]
		if err := c.json.Unmarshal(responseBody, &response); err != nil {
			return nil, err
		}
		if err := checkCode(response.Code, response.Msg); err != nil {
			return nil, err
		}
		return response.Data, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collections: %w", err)
	}
	return collections, nil
}

// postAssets posts a JSON body and decodes a plain asset list payload
func (c *NFTScanClient) postAssets(ctx context.Context, endpoint string, body []byte) ([]wireAsset, error) {
	responseBody, err := c.httpClient.Post(ctx, endpoint, "application/json", c.headers(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var response apiResponse[[]wireAsset]
	if err := c.json.Unmarshal(responseBody, &response); err != nil {
		return nil, err
	}
	if err := checkCode(response.Code, response.Msg); err != nil {
		return nil, err
	}
	return response.Data, nil
}

func (c *NFTScanClient) endpoint(chain domain.Chain, path string) (string, error) {
	baseURL, ok := c.baseURLs[chain]
	if !ok || baseURL == "" {
		return "", fmt.Errorf("no API endpoint for chain %d: %w", chain, domain.ErrUnsupportedChain)
	}
	return strings.TrimSuffix(baseURL, "/") + path, nil
}

func (c *NFTScanClient) headers() map[string]string {
	return map[string]string{apiKeyHeader: c.apiKey}
}

// checkCode validates the NFTScan envelope status
func checkCode(code int, msg string) error {
	if code != 200 {
		return fmt.Errorf("API error %d: %s", code, msg)
	}
	return nil
}

// assetToRecord converts a wire asset into the canonical record. Ownership
// count falls back to 1 when the amount is not a plain integer.
func assetToRecord(chain domain.Chain, asset wireAsset) domain.AssetRecord {
	count := 1
	if n, ok := parseCount(asset.Amount); ok {
		count = n
	}
	return domain.AssetRecord{
		Chain:           chain,
		ContractAddress: asset.ContractAddress,
		TokenID:         asset.TokenID,
		OwnedCount:      count,
		MintTimestamp:   millisToSeconds(asset.MintTimestamp),
		OwnerAddress:    asset.Owner,
		ContractName:    asset.ContractName,
		Name:            asset.Name,
		ErcType:         domain.ErcType(asset.ErcType),
		Minter:          asset.Minter,
		TokenURI:        asset.TokenURI,
		ContentURI:      asset.ContentURI,
		ImageURI:        asset.ImageURI,
		ScannedURI:      asset.NFTScanURI,
		ThumbnailURI:    asset.SmallNFTScanURI,
		ExternalLink:    asset.ExternalLink,
		MetadataJSON:    asset.MetadataJSON,
	}
}

// joinCollections attaches collection metadata to each asset by contract
// address
func joinCollections(chain domain.Chain, assets []wireAsset, collections []wireCollection) []domain.AssetRecord {
	byContract := make(map[string]wireCollection, len(collections))
	for _, collection := range collections {
		byContract[strings.ToLower(collection.ContractAddress)] = collection
	}

	records := make([]domain.AssetRecord, 0, len(assets))
	for _, asset := range assets {
		record := assetToRecord(chain, asset)
		if collection, ok := byContract[strings.ToLower(asset.ContractAddress)]; ok {
			record.ContractName = firstNonEmpty(asset.ContractName, collection.Name)
			record.Symbol = collection.Symbol
			record.Description = collection.Description
			record.TotalSupply = collection.ItemsTotal
		}
		records = append(records, record)
	}
	return records
}

// orderByKeys reorders records to match the request key order. The batch
// endpoint does not guarantee response ordering.
func orderByKeys(records []domain.AssetRecord, keys []domain.AssetKey) []domain.AssetRecord {
	type indexKey struct {
		contract string
		tokenID  string
	}
	byKey := make(map[indexKey]domain.AssetRecord, len(records))
	for _, record := range records {
		byKey[indexKey{strings.ToLower(record.ContractAddress), record.TokenID}] = record
	}

	ordered := make([]domain.AssetRecord, 0, len(records))
	for _, key := range keys {
		if record, ok := byKey[indexKey{strings.ToLower(key.ContractAddress), key.TokenID}]; ok {
			ordered = append(ordered, record)
		}
	}
	return ordered
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseCount parses a decimal ownership amount
func parseCount(amount string) (int, bool) {
	if amount == "" {
		return 0, false
	}
	n := 0
	for _, r := range amount {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// millisToSeconds normalizes API timestamps, which arrive in milliseconds,
// to unix seconds. Values already in seconds pass through unchanged.
func millisToSeconds(ts int64) int64 {
	if ts > 1e12 {
		return ts / 1000
	}
	return ts
}
