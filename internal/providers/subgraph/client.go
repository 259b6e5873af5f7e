package subgraph

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/feral-file/ff-asset-aggregator/internal/adapter"
	"github.com/feral-file/ff-asset-aggregator/internal/domain"
)

// defaultFirst is the page size requested from the subgraph
const defaultFirst = 100

// Asset represents a transfer-derived ownership record from the subgraph.
// Note: the deployed subgraph schema misspells the block timestamp field,
// so the wire name is kept as-is.
type Asset struct {
	Type    string `json:"type"`
	Token   string `json:"token"`
	TokenID string `json:"tokenId"`
	From    string `json:"from"`
	To      string `json:"to"`
	// HolderContract is the contract account holding the token (the
	// hardware device wallet), distinct from the EOA in To
	HolderContract           string `json:"contractAddress"`
	ToCount                  string `json:"toCount"`
	LastUpdateBlockTimestamp string `json:"lastUpdateBlcokTimestamp"`
}

// BlockTimestamp returns the last-update block timestamp as unix seconds
func (a *Asset) BlockTimestamp() int64 {
	ts, _ := strconv.ParseInt(a.LastUpdateBlockTimestamp, 10, 64)
	return ts
}

// OwnedCount returns the held quantity reported by the subgraph
func (a *Asset) OwnedCount() int {
	n, _ := strconv.Atoi(a.ToCount)
	return n
}

// graphqlRequest represents a GraphQL request
type graphqlRequest struct {
	Query         string      `json:"query"`
	Variables     interface{} `json:"variables"`
	OperationName string      `json:"operationName"`
}

// assetsResponse represents the GraphQL response for asset queries
type assetsResponse struct {
	Data struct {
		Assets []Asset `json:"assets"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// metaResponse represents the GraphQL response for the indexer head query
type metaResponse struct {
	Data struct {
		Meta struct {
			Block struct {
				Number uint64 `json:"number"`
			} `json:"block"`
		} `json:"_meta"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

const getAssetsQuery = `query getAssets($first: Int, $owner: String, $token: String, $contractAddress: String) {
  assets(
    first: $first
    orderBy: lastUpdateBlockNumber
    orderDirection: desc
    where: {or: [{to: $owner}, {token: $token}, {contractAddress: $contractAddress}]}
  ) {
    type
    token
    tokenId
    from
    to
    contractAddress
    toCount
    lastUpdateBlcokTimestamp
  }
}`

const getMetaQuery = `query getMeta {
  _meta {
    block {
      number
    }
  }
}`

// Client defines the interface for subgraph client operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/subgraph_client.go -package=mocks -mock_names=Client=MockSubgraphClient
type Client interface {
	// GetAssetsByOwner returns transfer-derived ownership records for an
	// owner address, most recent first, burns excluded
	GetAssetsByOwner(ctx context.Context, chain domain.Chain, owner string) ([]Asset, error)

	// GetAssetsByToken returns records for a token contract, most recent
	// first, burns excluded
	GetAssetsByToken(ctx context.Context, chain domain.Chain, token string) ([]Asset, error)

	// GetAssetsByHolderContract returns the most recent record for a holder
	// contract address at or above blockFloor (0 means no floor)
	GetAssetsByHolderContract(ctx context.Context, chain domain.Chain, holderContract string, blockFloor uint64) ([]Asset, error)

	// GetHeadBlock returns the indexer's current head block number
	GetHeadBlock(ctx context.Context, chain domain.Chain) (uint64, error)
}

// SubgraphClient implements Client against per-chain GraphQL endpoints
type SubgraphClient struct {
	httpClient adapter.HTTPClient
	endpoints  map[domain.Chain]string
	json       adapter.JSON
}

// NewClient creates a new subgraph client
func NewClient(httpClient adapter.HTTPClient, endpoints map[domain.Chain]string, json adapter.JSON) Client {
	return &SubgraphClient{
		httpClient: httpClient,
		endpoints:  endpoints,
		json:       json,
	}
}

// GetAssetsByOwner returns transfer-derived ownership records for an owner
func (c *SubgraphClient) GetAssetsByOwner(ctx context.Context, chain domain.Chain, owner string) ([]Asset, error) {
	return c.queryAssets(ctx, chain, map[string]interface{}{
		"first": defaultFirst,
		"owner": owner,
	})
}

// GetAssetsByToken returns records for a token contract
func (c *SubgraphClient) GetAssetsByToken(ctx context.Context, chain domain.Chain, token string) ([]Asset, error) {
	return c.queryAssets(ctx, chain, map[string]interface{}{
		"first": defaultFirst,
		"token": token,
	})
}

// GetAssetsByHolderContract returns the most recent record for a holder contract
func (c *SubgraphClient) GetAssetsByHolderContract(ctx context.Context, chain domain.Chain, holderContract string, blockFloor uint64) ([]Asset, error) {
	variables := map[string]interface{}{
		"first":           1,
		"contractAddress": holderContract,
	}
	if blockFloor > 0 {
		variables["blockFloor"] = strconv.FormatUint(blockFloor, 10)
	}
	return c.queryAssets(ctx, chain, variables)
}

// GetHeadBlock returns the indexer's current head block number
func (c *SubgraphClient) GetHeadBlock(ctx context.Context, chain domain.Chain) (uint64, error) {
	endpoint, err := c.endpoint(chain)
	if err != nil {
		return 0, err
	}

	body, err := c.post(ctx, endpoint, graphqlRequest{
		Query:         getMetaQuery,
		OperationName: "getMeta",
	})
	if err != nil {
		return 0, err
	}

	var response metaResponse
	if err := c.json.Unmarshal(body, &response); err != nil {
		return 0, fmt.Errorf("failed to unmarshal subgraph meta response: %w", err)
	}
	if len(response.Errors) > 0 {
		return 0, fmt.Errorf("subgraph meta query failed: %s", response.Errors[0].Message)
	}

	return response.Data.Meta.Block.Number, nil
}

func (c *SubgraphClient) queryAssets(ctx context.Context, chain domain.Chain, variables map[string]interface{}) ([]Asset, error) {
	endpoint, err := c.endpoint(chain)
	if err != nil {
		return nil, err
	}

	body, err := c.post(ctx, endpoint, graphqlRequest{
		Query:         getAssetsQuery,
		Variables:     variables,
		OperationName: "getAssets",
	})
	if err != nil {
		return nil, err
	}

	var response assetsResponse
	if err := c.json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subgraph response: %w", err)
	}
	if len(response.Errors) > 0 {
		return nil, fmt.Errorf("subgraph query failed: %s", response.Errors[0].Message)
	}

	return filterAssets(response.Data.Assets), nil
}

func (c *SubgraphClient) post(ctx context.Context, endpoint string, request graphqlRequest) ([]byte, error) {
	requestBody, err := c.json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	responseBody, err := c.httpClient.Post(ctx, endpoint, "application/json", nil, bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to call subgraph: %w", err)
	}

	return responseBody, nil
}

func (c *SubgraphClient) endpoint(chain domain.Chain) (string, error) {
	endpoint, ok := c.endpoints[chain]
	if !ok || endpoint == "" {
		return "", fmt.Errorf("no subgraph endpoint for chain %d: %w", chain, domain.ErrUnsupportedChain)
	}
	return endpoint, nil
}

// filterAssets drops burns to the zero address and orders the remaining
// records by block timestamp, most recent first
func filterAssets(assets []Asset) []Asset {
	filtered := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if domain.IsZeroAddress(a.To) {
			continue
		}
		filtered = append(filtered, a)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].BlockTimestamp() > filtered[j].BlockTimestamp()
	})

	return filtered
}
