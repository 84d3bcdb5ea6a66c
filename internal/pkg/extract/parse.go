package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Vodeneev/specialsbot/internal/pkg/models"
)

// Parse extracts one raw field bag per .widgetEvent element from the
// rendered page HTML. A field that cannot be located is simply left out
// of its bag; only an unparseable document fails the whole call.
func Parse(html string) ([]models.FieldBag, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	var bags []models.FieldBag
	doc.Find(".widgetEvent").Each(func(_ int, event *goquery.Selection) {
		bags = append(bags, extractEvent(event))
	})

	return bags, nil
}

func extractEvent(event *goquery.Selection) models.FieldBag {
	bag := models.FieldBag{}

	if class, ok := event.Attr("class"); ok {
		bag[models.FieldMarketIDClass] = class
	}
	if start := event.Find(".widgetEvent-startTime").First(); start.Length() > 0 {
		bag[models.FieldTime] = start.Text()
	}
	if name := event.Find(".marketName").First(); name.Length() > 0 {
		bag[models.FieldDescription] = name.Text()
	}

	selection := event.Find(".widgetSelection").First()
	if selection.Length() == 0 {
		bag[models.FieldPricingError] = "1"
		return bag
	}

	// Primary back column (b_0) and primary lay column (l_0). Price and
	// stake are extracted as a pair: a column missing either is treated
	// as absent entirely.
	extractColumn(selection, ".back-price.b_0", bag, models.FieldBackPrice, models.FieldBackLiquidity)
	extractColumn(selection, ".lay-price.l_0", bag, models.FieldLayPrice, models.FieldLayLiquidity)

	return bag
}

func extractColumn(selection *goquery.Selection, colSelector string, bag models.FieldBag, priceKey, stakeKey string) {
	col := selection.Find(colSelector).First()
	if col.Length() == 0 {
		return
	}
	price := col.Find(".price").First()
	stake := col.Find(".stake").First()
	if price.Length() == 0 || stake.Length() == 0 {
		return
	}
	bag[priceKey] = strings.TrimSpace(price.Text())
	bag[stakeKey] = strings.TrimSpace(stake.Text())
}
