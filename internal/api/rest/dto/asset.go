package dto

import (
	"encoding/json"

	"github.com/feral-file/ff-asset-aggregator/internal/domain"
)

// Asset is the outward representation of a merged asset record. Field
// names match the schema display devices already consume.
type Asset struct {
	Token        string          `json:"token"`
	TokenID      string          `json:"tokenId"`
	Chain        int             `json:"chain"`
	Count        int             `json:"count"`
	URI          string          `json:"uri"`
	Name         string          `json:"name,omitempty"`
	Author       string          `json:"author"`
	Type         int             `json:"type"`
	Media        string          `json:"media"`
	MediaOrigin  string          `json:"mediaOrigin"`
	Image        string          `json:"image"`
	ImageOrigin  string          `json:"imageOrigin"`
	Thumbnail    string          `json:"thumbnail"`
	ExternalLink string          `json:"externalLink"`
	Symbol       string          `json:"symbol,omitempty"`
	Info         string          `json:"info,omitempty"`
	Owner        string          `json:"owner"`
	OwnerBase    string          `json:"ownerBase,omitempty"`
	MetadataJSON json.RawMessage `json:"metadataJson"`
}

// NewAsset maps a merged record onto the device-facing schema. Token ids
// are rendered as zero-padded hex; invalid metadata degrades to an empty
// object.
func NewAsset(record domain.AssetRecord) Asset {
	name := record.Name
	if name == "" {
		name = record.ContractName
	}

	media := firstNonEmpty(record.ScannedURI, record.ContentURI)
	image := firstNonEmpty(record.ScannedURI, record.ImageURI)

	metadata := json.RawMessage(record.MetadataJSON)
	if !json.Valid(metadata) {
		metadata = json.RawMessage("{}")
	}

	return Asset{
		Token:        record.ContractAddress,
		TokenID:      domain.FormatTokenID(record.TokenID),
		Chain:        int(record.Chain),
		Count:        record.OwnedCount,
		URI:          record.TokenURI,
		Name:         name,
		Author:       record.Minter,
		Type:         record.ErcType.Code(),
		Media:        media,
		MediaOrigin:  record.ContentURI,
		Image:        image,
		ImageOrigin:  record.ImageURI,
		Thumbnail:    record.ThumbnailURI,
		ExternalLink: record.ExternalLink,
		Symbol:       record.Symbol,
		Info:         record.Description,
		Owner:        record.OwnerAddress,
		OwnerBase:    record.OwnerBaseAddress,
		MetadataJSON: metadata,
	}
}

// AssetPage is the paginated asset response
type AssetPage struct {
	Total     int     `json:"total"`
	TotalPage int     `json:"totalPage"`
	Items     []Asset `json:"items"`
}

// NewAssetPage maps a merged page onto the device-facing schema
func NewAssetPage(page domain.AssetPage) AssetPage {
	items := make([]Asset, 0, len(page.Items))
	for _, record := range page.Items {
		items = append(items, NewAsset(record))
	}
	return AssetPage{
		Total:     page.Total,
		TotalPage: page.TotalPage,
		Items:     items,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
