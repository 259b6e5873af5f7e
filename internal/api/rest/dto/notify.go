package dto

import (
	"errors"

	"github.com/feral-file/ff-asset-aggregator/internal/domain"
)

// NotifyRequest is the inbound transfer event pushed by the upstream
// activity webhook
type NotifyRequest struct {
	Network string     `json:"network" binding:"required"`
	Type    string     `json:"type" binding:"required"`
	Data    NotifyData `json:"data" binding:"required"`
}

// NotifyData carries the transfer details of a NotifyRequest
type NotifyData struct {
	Hash            string `json:"hash" binding:"required"`
	BlockNumber     uint64 `json:"block_number" binding:"required"`
	ContractAddress string `json:"contract_address"`
	ContractTokenID string `json:"contract_token_id"`
	Send            string `json:"send"`
	Receive         string `json:"receive"`
}

// ToActivity validates the request and converts it to a transfer activity
func (r *NotifyRequest) ToActivity() (domain.TransferActivity, error) {
	chain, ok := domain.ChainFromName(r.Network)
	if !ok {
		return domain.TransferActivity{}, errors.New("unknown network: " + r.Network)
	}

	switch domain.NotifyType(r.Type) {
	case domain.NotifyTypeAddressActivity, domain.NotifyTypeNFTActivity:
	default:
		return domain.TransferActivity{}, errors.New("unknown notify type: " + r.Type)
	}

	return domain.TransferActivity{
		Chain:           chain,
		TxHash:          r.Data.Hash,
		BlockNumber:     r.Data.BlockNumber,
		SendContract:    r.Data.Send,
		ReceiveContract: r.Data.Receive,
		ContractAddress: r.Data.ContractAddress,
		TokenID:         r.Data.ContractTokenID,
	}, nil
}
