package domain

import (
	"strings"
)

// Chain represents a supported EVM chain by its numeric chain id
type Chain int

const (
	ChainEthereum Chain = 1
	ChainPolygon  Chain = 137
)

// SupportedChains lists the chains the aggregator can answer queries for
var SupportedChains = []Chain{ChainEthereum, ChainPolygon}

// IsSupportedChain checks if a chain id belongs to the supported set
func IsSupportedChain(chain Chain) bool {
	for _, c := range SupportedChains {
		if c == chain {
			return true
		}
	}
	return false
}

// Name returns the short chain name used for per-chain endpoint selection
func (c Chain) Name() string {
	switch c {
	case ChainEthereum:
		return "eth"
	case ChainPolygon:
		return "polygon"
	default:
		return ""
	}
}

// ChainFromName resolves a short chain name back to its chain id; ok is
// false for unknown names
func ChainFromName(name string) (Chain, bool) {
	for _, c := range SupportedChains {
		if c.Name() == strings.ToLower(name) {
			return c, true
		}
	}
	return 0, false
}

// ZeroAddress is the EVM burn/mint address
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// IsZeroAddress reports whether addr is the zero address (case-insensitive)
func IsZeroAddress(addr string) bool {
	return strings.EqualFold(addr, ZeroAddress)
}

// ErcType represents the token standard of an asset
type ErcType string

const (
	ErcTypeERC721  ErcType = "erc721"
	ErcTypeERC1155 ErcType = "erc1155"
)

// Code returns the numeric type code exposed on the wire (1 for ERC-721, 2 for ERC-1155)
func (t ErcType) Code() int {
	switch t {
	case ErcTypeERC721:
		return 1
	case ErcTypeERC1155:
		return 2
	default:
		return 0
	}
}

// AssetKey identifies a token within a contract
type AssetKey struct {
	ContractAddress string
	TokenID         string
}

// AssetRecord is the canonical merged ownership unit produced by the
// aggregation engine. Records are constructed fresh per request from the
// primary source and the subgraph and are never persisted outside the
// result cache.
type AssetRecord struct {
	Chain           Chain  `json:"chain"`
	ContractAddress string `json:"contract_address"`
	TokenID         string `json:"token_id"`
	OwnedCount      int    `json:"owned_count"`

	// MintTimestamp is unix seconds; zero for subgraph-origin records that
	// could not be enriched
	MintTimestamp int64 `json:"mint_timestamp"`

	// IsFromSubgraph marks records discovered via the transfer subgraph
	IsFromSubgraph bool `json:"is_from_subgraph"`
	// SubgraphBlockTimestamp is set only when IsFromSubgraph is true
	SubgraphBlockTimestamp int64 `json:"subgraph_block_timestamp,omitempty"`

	// OwnerAddress is the holding address. For subgraph-enriched records this
	// is the holder contract reported by the subgraph, which may differ from
	// the address the query was anchored on.
	OwnerAddress string `json:"owner_address"`
	// OwnerBaseAddress is the address the query was anchored on
	OwnerBaseAddress string `json:"owner_base_address,omitempty"`

	// Collection metadata from the primary source
	ContractName string `json:"contract_name,omitempty"`
	Symbol       string `json:"symbol,omitempty"`
	Description  string `json:"description,omitempty"`
	TotalSupply  int    `json:"total_supply,omitempty"`

	// Token metadata from the primary source
	Name         string  `json:"name,omitempty"`
	ErcType      ErcType `json:"erc_type,omitempty"`
	Minter       string  `json:"minter,omitempty"`
	TokenURI     string  `json:"token_uri,omitempty"`
	ContentURI   string  `json:"content_uri,omitempty"`
	ImageURI     string  `json:"image_uri,omitempty"`
	ScannedURI   string  `json:"scanned_uri,omitempty"`
	ThumbnailURI string  `json:"thumbnail_uri,omitempty"`
	ExternalLink string  `json:"external_link,omitempty"`
	MetadataJSON string  `json:"metadata_json,omitempty"`

	// ErrorState is set when enrichment failed for this record
	ErrorState string `json:"error_state,omitempty"`
}

// AssetPage is the paginated aggregation result. Total always reflects the
// post-filter, pre-pagination count.
type AssetPage struct {
	Total     int           `json:"total"`
	TotalPage int           `json:"totalPage"`
	Items     []AssetRecord `json:"items"`
}

// ZeroPage is the defined fallback value for any failed aggregation
func ZeroPage() AssetPage {
	return AssetPage{Total: 0, TotalPage: 0, Items: []AssetRecord{}}
}

// TransferRecord is a single token transfer from the primary source
type TransferRecord struct {
	Chain           Chain   `json:"chain"`
	ContractAddress string  `json:"contract_address"`
	TokenID         string  `json:"token_id"`
	TxHash          string  `json:"tx_hash"`
	BlockNumber     uint64  `json:"block_number"`
	FromAddress     string  `json:"from_address"`
	ToAddress       string  `json:"to_address"`
	Amount          string  `json:"amount"`
	TradePrice      float64 `json:"trade_price"`
	TradeSymbol     string  `json:"trade_symbol"`
	TradeSymbolAddr string  `json:"trade_symbol_address"`
	ErcType         ErcType `json:"erc_type"`
	Timestamp       int64   `json:"timestamp"`
}

// NotifyType is the remote registry subscription type
type NotifyType string

const (
	NotifyTypeAddressActivity NotifyType = "ADDRESS_ACTIVITY"
	NotifyTypeNFTActivity     NotifyType = "NFT_ACTIVITY"
)

// BucketCapacity is the maximum number of addresses a notification bucket
// may hold. A bucket at capacity is immutable; the next append creates a
// fresh bucket.
const BucketCapacity = 10000

// NotificationSubscription is a capacity-bounded bucket of addresses
// registered for activity alerts on one chain.
type NotificationSubscription struct {
	// ID is assigned by the remote registry on first creation; empty until
	// the first successful write
	ID         string     `json:"id,omitempty"`
	Chain      Chain      `json:"chain"`
	NotifyType NotifyType `json:"notify_type"`
	// Addresses is ordered newest-first
	Addresses []string `json:"notify_params"`
}

// Full reports whether the bucket reached capacity and must not be mutated
func (s *NotificationSubscription) Full() bool {
	return len(s.Addresses) >= BucketCapacity
}

// Contains checks bucket membership case-insensitively
func (s *NotificationSubscription) Contains(address string) bool {
	for _, a := range s.Addresses {
		if strings.EqualFold(a, address) {
			return true
		}
	}
	return false
}

// TransferActivity is the inbound transfer event that triggers the
// block-wait → notify pipeline
type TransferActivity struct {
	Chain           Chain  `json:"chain"`
	TxHash          string `json:"tx_hash"`
	BlockNumber     uint64 `json:"block_number"`
	SendContract    string `json:"send_contract"`
	ReceiveContract string `json:"receive_contract"`
	ContractAddress string `json:"contract_address"`
	TokenID         string `json:"token_id"`
}
