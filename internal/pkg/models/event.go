package models

// Sentinel values carried in snapshots when extraction failed.
const (
	// SentinelMissing marks a field (or the market id) that could not be extracted at all.
	SentinelMissing = "N/A"
	// SentinelNoSide marks a price/liquidity field whose market side was not on the page.
	SentinelNoSide = "-"
	// SentinelPriceError marks back_price when the whole pricing block failed to parse.
	SentinelPriceError = "Err"
)

// FieldBag keys produced by the extractor. A missing key means the field
// could not be located in the event element.
const (
	FieldMarketIDClass = "market_id_class"
	FieldTime          = "time"
	FieldDescription   = "description"
	FieldBackPrice     = "back_price"
	FieldBackLiquidity = "back_liquidity"
	FieldLayPrice      = "lay_price"
	FieldLayLiquidity  = "lay_liquidity"
	// FieldPricingError is set (to any value) when the selection block itself was absent.
	FieldPricingError = "pricing_error"
)

// FieldBag is the raw per-event field set extracted from one on-page event element.
type FieldBag map[string]string

// Snapshot is the canonical, normalized view of one observed event.
// MarketID is the sole identity key; everything else is observed state.
type Snapshot struct {
	MarketID      string
	EventTime     string
	Description   string
	BackPrice     string
	BackLiquidity string
	LayPrice      string
	LayLiquidity  string
}

// Processable reports whether the snapshot carries a usable market id.
// Snapshots without one are never persisted.
func (s Snapshot) Processable() bool {
	return s.MarketID != "" && s.MarketID != SentinelMissing
}

// Classification is the result of reconciling one snapshot against the store.
type Classification int

const (
	// ClassificationRejected means the snapshot had no usable market id and was not stored.
	ClassificationRejected Classification = iota
	// ClassificationNew means the market id was seen for the first time.
	ClassificationNew
	// ClassificationUpdated means an existing record had its odds refreshed.
	ClassificationUpdated
)

func (c Classification) String() string {
	switch c {
	case ClassificationNew:
		return "new"
	case ClassificationUpdated:
		return "updated"
	case ClassificationRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
