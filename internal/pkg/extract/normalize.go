package extract

import (
	"strings"

	"github.com/Vodeneev/specialsbot/internal/pkg/models"
)

// marketIDPrefix tags the class token carrying the market id,
// e.g. "widgetEvent marketId-49119881".
const marketIDPrefix = "marketId-"

// Normalize converts a raw field bag into a canonical snapshot.
// It is total: any missing or broken field degrades to its sentinel
// instead of failing the record.
func Normalize(bag models.FieldBag) models.Snapshot {
	snap := models.Snapshot{
		MarketID:      models.SentinelMissing,
		EventTime:     models.SentinelMissing,
		Description:   models.SentinelMissing,
		BackPrice:     models.SentinelNoSide,
		BackLiquidity: models.SentinelNoSide,
		LayPrice:      models.SentinelNoSide,
		LayLiquidity:  models.SentinelNoSide,
	}

	if class, ok := bag[models.FieldMarketIDClass]; ok {
		snap.MarketID = marketIDFromClass(class)
	}
	if t, ok := bag[models.FieldTime]; ok {
		snap.EventTime = t
	}
	if desc, ok := bag[models.FieldDescription]; ok {
		snap.Description = strings.TrimSpace(desc)
	}

	if _, broken := bag[models.FieldPricingError]; broken {
		// The whole selection block failed: back_price carries the error
		// marker, liquidity fields stay unset.
		snap.BackPrice = models.SentinelPriceError
		return snap
	}

	if price, ok := bag[models.FieldBackPrice]; ok {
		snap.BackPrice = price
	}
	if stake, ok := bag[models.FieldBackLiquidity]; ok {
		snap.BackLiquidity = stake
	}
	if price, ok := bag[models.FieldLayPrice]; ok {
		snap.LayPrice = price
	}
	if stake, ok := bag[models.FieldLayLiquidity]; ok {
		snap.LayLiquidity = stake
	}

	return snap
}

// marketIDFromClass finds the single marketId-prefixed token in a class
// attribute and strips the prefix. Returns the missing sentinel when no
// token matches.
func marketIDFromClass(class string) string {
	for _, token := range strings.Fields(class) {
		if strings.HasPrefix(token, marketIDPrefix) {
			return strings.TrimPrefix(token, marketIDPrefix)
		}
	}
	return models.SentinelMissing
}
