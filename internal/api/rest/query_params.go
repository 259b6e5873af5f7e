package rest

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-asset-aggregator/internal/aggregator"
	"github.com/feral-file/ff-asset-aggregator/internal/domain"
)

// ParseOwnerQuery parses and normalizes the assets-by-owner query string.
// Addresses and token ids are lowercased so equal queries share a cache
// entry regardless of input casing.
func ParseOwnerQuery(c *gin.Context) (aggregator.OwnerQuery, error) {
	owner := strings.ToLower(strings.TrimSpace(c.Query("owner")))
	if owner == "" {
		return aggregator.OwnerQuery{}, errors.New("owner is required")
	}

	chain, err := parseChain(c.Query("chain"))
	if err != nil {
		return aggregator.OwnerQuery{}, err
	}

	onlySubgraph, err := parseBool(c.Query("onlySubgraph"), "onlySubgraph")
	if err != nil {
		return aggregator.OwnerQuery{}, err
	}
	isHardware, err := parseBool(c.Query("isHardware"), "isHardware")
	if err != nil {
		return aggregator.OwnerQuery{}, err
	}

	limit, page, err := parsePagination(c)
	if err != nil {
		return aggregator.OwnerQuery{}, err
	}

	return aggregator.OwnerQuery{
		Owner:        owner,
		Chain:        chain,
		Token:        strings.ToLower(c.Query("token")),
		TokenID:      strings.ToLower(c.Query("tokenId")),
		OnlySubgraph: onlySubgraph,
		IsHardware:   isHardware,
		Limit:        limit,
		Page:         page,
	}, nil
}

// ParseTokenQuery parses and normalizes the assets-by-token query string
func ParseTokenQuery(c *gin.Context) (aggregator.TokenQuery, error) {
	token := strings.ToLower(strings.TrimSpace(c.Query("token")))
	if token == "" {
		return aggregator.TokenQuery{}, errors.New("token is required")
	}

	chain, err := parseChain(c.Query("chain"))
	if err != nil {
		return aggregator.TokenQuery{}, err
	}

	limit, page, err := parsePagination(c)
	if err != nil {
		return aggregator.TokenQuery{}, err
	}

	return aggregator.TokenQuery{
		Chain:   chain,
		Token:   token,
		TokenID: strings.ToLower(c.Query("tokenId")),
		Limit:   limit,
		Page:    page,
	}, nil
}

// ParseTransactionQuery parses the transfer history query string
func ParseTransactionQuery(c *gin.Context) (aggregator.TransactionQuery, error) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return aggregator.TransactionQuery{}, errors.New("token is required")
	}
	tokenID := strings.TrimSpace(c.Query("tokenId"))
	if tokenID == "" {
		return aggregator.TransactionQuery{}, errors.New("tokenId is required")
	}

	chain, err := parseChain(c.Query("chain"))
	if err != nil {
		return aggregator.TransactionQuery{}, err
	}

	return aggregator.TransactionQuery{
		Chain:   chain,
		Token:   token,
		TokenID: tokenID,
	}, nil
}

// parseChain parses an optional numeric chain id. The id only has to be a
// positive integer here; unsupported chains resolve to an empty result
// downstream rather than an error.
func parseChain(raw string) (*domain.Chain, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return nil, errors.New("chain must be a positive integer")
	}
	chain := domain.Chain(id)
	return &chain, nil
}

// parseBool parses an optional "true"/"false" flag
func parseBool(raw, name string) (bool, error) {
	switch raw {
	case "", "false":
		return false, nil
	case "true":
		return true, nil
	default:
		return false, errors.New(name + " must be true or false")
	}
}

// parsePagination parses the optional limit and page parameters. A missing
// limit means the whole result set is returned as one page.
func parsePagination(c *gin.Context) (*int, int, error) {
	var limit *int
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, 0, errors.New("limit must be a positive integer")
		}
		limit = &n
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, 0, errors.New("page must be a positive integer")
		}
		page = n
	}

	return limit, page, nil
}
