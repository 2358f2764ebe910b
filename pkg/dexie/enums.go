package dexie

// AssetType narrows an offer-search side to one of the two asset classes
// dexie trades.
type AssetType string

const (
	AssetTypeCAT AssetType = "cat"
	AssetTypeNFT AssetType = "nft"
)

func (t AssetType) valid() bool {
	return t == AssetTypeCAT || t == AssetTypeNFT
}

// SortOrder names the orderings accepted by offer search.
type SortOrder string

const (
	SortPrice         SortOrder = "price"
	SortPriceDesc     SortOrder = "price_desc"
	SortDateCompleted SortOrder = "date_completed"
	SortDateFound     SortOrder = "date_found"
)

func (s SortOrder) valid() bool {
	switch s {
	case SortPrice, SortPriceDesc, SortDateCompleted, SortDateFound:
		return true
	}
	return false
}

// TradeType filters historical trades by side.
type TradeType string

const (
	TradeTypeBuy  TradeType = "buy"
	TradeTypeSell TradeType = "sell"
)

func (t TradeType) valid() bool {
	return t == TradeTypeBuy || t == TradeTypeSell
}
