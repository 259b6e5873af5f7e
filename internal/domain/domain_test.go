package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feral-file/ff-asset-aggregator/internal/domain"
)

func TestFormatTokenID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "decimal input",
			input:    "1",
			expected: "0x0000000000000000000000000000000000000000000000000000000000000001",
		},
		{
			name:     "large decimal input",
			input:    "115792089237316195423570985008687907853269984665640564039457584007913129639935",
			expected: "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		},
		{
			name:     "hex input",
			input:    "0xff",
			expected: "0x00000000000000000000000000000000000000000000000000000000000000ff",
		},
		{
			name:     "zero",
			input:    "0",
			expected: "0x0000000000000000000000000000000000000000000000000000000000000000",
		},
		{
			name:     "unparsable input returned unchanged",
			input:    "not-a-number",
			expected: "not-a-number",
		},
		{
			name:     "empty input returned unchanged",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.FormatTokenID(tt.input))
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	checksummed := "0xAb5801a7D398351b8bE11C439e05C5B3259aec9B"
	assert.Equal(t, strings.ToLower(checksummed), domain.NormalizeAddress(checksummed))
	assert.Equal(t, strings.ToLower(checksummed), domain.NormalizeAddress(strings.ToUpper(checksummed[2:])))
	// Non-address input degrades to plain lowercasing
	assert.Equal(t, "something", domain.NormalizeAddress("SOMETHING"))
}

func TestIsZeroAddress(t *testing.T) {
	assert.True(t, domain.IsZeroAddress("0x0000000000000000000000000000000000000000"))
	assert.True(t, domain.IsZeroAddress("0x0000000000000000000000000000000000000000"))
	assert.False(t, domain.IsZeroAddress("0x0000000000000000000000000000000000000001"))
}

func TestChainFromName(t *testing.T) {
	chain, ok := domain.ChainFromName("eth")
	assert.True(t, ok)
	assert.Equal(t, domain.ChainEthereum, chain)

	chain, ok = domain.ChainFromName("POLYGON")
	assert.True(t, ok)
	assert.Equal(t, domain.ChainPolygon, chain)

	_, ok = domain.ChainFromName("tezos")
	assert.False(t, ok)
}

func TestErcTypeCode(t *testing.T) {
	assert.Equal(t, 1, domain.ErcTypeERC721.Code())
	assert.Equal(t, 2, domain.ErcTypeERC1155.Code())
	assert.Equal(t, 0, domain.ErcType("unknown").Code())
}

func TestNotificationSubscription(t *testing.T) {
	sub := domain.NotificationSubscription{
		Chain:      domain.ChainEthereum,
		NotifyType: domain.NotifyTypeAddressActivity,
		Addresses:  []string{"0xAAA", "0xbbb"},
	}

	assert.False(t, sub.Full())
	assert.True(t, sub.Contains("0xaaa"))
	assert.True(t, sub.Contains("0xBBB"))
	assert.False(t, sub.Contains("0xccc"))

	full := domain.NotificationSubscription{
		Addresses: make([]string, domain.BucketCapacity),
	}
	assert.True(t, full.Full())
}

func TestZeroPage(t *testing.T) {
	page := domain.ZeroPage()
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPage)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}
