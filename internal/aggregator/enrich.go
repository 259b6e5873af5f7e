package aggregator

import (
	"context"

	"github.com/feral-file/ff-asset-aggregator/internal/domain"
	"github.com/feral-file/ff-asset-aggregator/internal/providers/subgraph"
)

// batchChunkSize bounds the key count per batch lookup against the primary
// source
const batchChunkSize = 50

// enrichOwnerAssets discovers transfer-derived holdings of an owner via the
// subgraph and enriches them with metadata from the primary source. The
// returned records carry the holder contract as the owner and the queried
// address as the owner base.
func (e *Engine) enrichOwnerAssets(ctx context.Context, chain domain.Chain, owner string) ([]domain.AssetRecord, error) {
	assets, err := e.subgraph.GetAssetsByOwner(ctx, chain, owner)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return []domain.AssetRecord{}, nil
	}

	records, err := e.nftscan.GetAssetsInBatches(ctx, chain, assetKeys(assets))
	if err != nil {
		return nil, err
	}

	byKey := indexAssets(assets)
	for i := range records {
		source, ok := byKey[recordKey(records[i])]
		if !ok {
			continue
		}
		records[i].OwnedCount = source.OwnedCount()
		records[i].IsFromSubgraph = true
		records[i].SubgraphBlockTimestamp = source.BlockTimestamp()
		records[i].OwnerAddress = source.HolderContract
		records[i].OwnerBaseAddress = owner
	}
	return records, nil
}

// enrichTokenAssets discovers transfer-derived holdings of a token contract
// via the subgraph. Keys are resolved against the primary source in bounded
// chunks.
func (e *Engine) enrichTokenAssets(ctx context.Context, chain domain.Chain, token string) ([]domain.AssetRecord, error) {
	assets, err := e.subgraph.GetAssetsByToken(ctx, chain, token)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return []domain.AssetRecord{}, nil
	}

	keys := assetKeys(assets)
	group := e.chunkPool.NewGroup()
	for start := 0; start < len(keys); start += batchChunkSize {
		end := min(start+batchChunkSize, len(keys))
		chunk := keys[start:end]
		group.SubmitErr(func() ([]domain.AssetRecord, error) {
			return e.nftscan.GetAssetsInBatches(ctx, chain, chunk)
		})
	}

	chunks, err := group.Wait()
	if err != nil {
		return nil, err
	}

	byKey := indexAssets(assets)
	var records []domain.AssetRecord
	for _, chunk := range chunks {
		for _, record := range chunk {
			source, ok := byKey[recordKey(record)]
			if !ok {
				records = append(records, record)
				continue
			}
			record.IsFromSubgraph = true
			record.SubgraphBlockTimestamp = source.BlockTimestamp()
			record.OwnerAddress = source.HolderContract
			record.OwnerBaseAddress = source.To
			records = append(records, record)
		}
	}
	return records, nil
}

// assetKeys projects subgraph assets onto batch lookup keys
func assetKeys(assets []subgraph.Asset) []domain.AssetKey {
	keys := make([]domain.AssetKey, 0, len(assets))
	for _, asset := range assets {
		keys = append(keys, domain.AssetKey{
			ContractAddress: asset.Token,
			TokenID:         asset.TokenID,
		})
	}
	return keys
}

// indexAssets indexes subgraph assets by their batch lookup key. On key
// collision the most recent record wins, which matches the subgraph's
// descending ordering.
func indexAssets(assets []subgraph.Asset) map[domain.AssetKey]subgraph.Asset {
	byKey := make(map[domain.AssetKey]subgraph.Asset, len(assets))
	for i := len(assets) - 1; i >= 0; i-- {
		asset := assets[i]
		byKey[domain.AssetKey{
			ContractAddress: domain.NormalizeAddress(asset.Token),
			TokenID:         asset.TokenID,
		}] = asset
	}
	return byKey
}

// recordKey renders the lookup key of an enriched record
func recordKey(record domain.AssetRecord) domain.AssetKey {
	return domain.AssetKey{
		ContractAddress: domain.NormalizeAddress(record.ContractAddress),
		TokenID:         record.TokenID,
	}
}
