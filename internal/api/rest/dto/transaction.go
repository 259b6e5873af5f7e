package dto

import (
	"strconv"

	"github.com/feral-file/ff-asset-aggregator/internal/domain"
)

// AssetTransaction is the outward representation of a token transfer.
// The fromAddres field name is a long-standing typo clients already parse;
// it must not be corrected.
type AssetTransaction struct {
	TxHash        string  `json:"txHash"`
	BlockNumber   uint64  `json:"blockNumber"`
	Token         string  `json:"token"`
	TokenID       string  `json:"tokenId"`
	FromAddress   string  `json:"fromAddres"`
	ToAddress     string  `json:"toAddress"`
	Count         int     `json:"count"`
	Value         string  `json:"value"`
	Price         float64 `json:"price"`
	Symbol        string  `json:"symbol"`
	SymbolAddress string  `json:"symbolAddress"`
	Chain         int     `json:"chain"`
	Type          int     `json:"type"`
	Description   string  `json:"description"`
	Date          int64   `json:"date"`
}

// NewAssetTransaction maps a transfer record onto the device-facing schema
func NewAssetTransaction(record domain.TransferRecord) AssetTransaction {
	count, _ := strconv.Atoi(record.Amount)
	return AssetTransaction{
		TxHash:        record.TxHash,
		BlockNumber:   record.BlockNumber,
		Token:         record.ContractAddress,
		TokenID:       domain.FormatTokenID(record.TokenID),
		FromAddress:   record.FromAddress,
		ToAddress:     record.ToAddress,
		Count:         count,
		Value:         record.Amount,
		Price:         record.TradePrice,
		Symbol:        record.TradeSymbol,
		SymbolAddress: record.TradeSymbolAddr,
		Chain:         int(record.Chain),
		Type:          record.ErcType.Code(),
		Description:   "",
		Date:          record.Timestamp,
	}
}

// NewAssetTransactions maps a transfer list onto the device-facing schema
func NewAssetTransactions(records []domain.TransferRecord) []AssetTransaction {
	transactions := make([]AssetTransaction, 0, len(records))
	for _, record := range records {
		transactions = append(transactions, NewAssetTransaction(record))
	}
	return transactions
}
