package extract

import (
	"testing"

	"github.com/Vodeneev/specialsbot/internal/pkg/models"
)

const samplePage = `
<html><body>
<div class="widgetEvent marketId-49119881">
  <span class="widgetEvent-startTime">15:30</span>
  <div class="marketName"> Team A to win </div>
  <div class="widgetSelection">
    <div class="back-price b_0"><span class="price">2.5</span><span class="stake">100</span></div>
    <div class="lay-price l_0"><span class="price">2.6</span><span class="stake">80</span></div>
  </div>
</div>
<div class="widgetEvent marketId-555">
  <div class="marketName">No selection block</div>
</div>
<div class="widgetEvent">
  <span class="widgetEvent-startTime">18:00</span>
  <div class="marketName">No market id</div>
  <div class="widgetSelection">
    <div class="back-price b_0"><span class="price">1.9</span></div>
  </div>
</div>
</body></html>`

func TestParse(t *testing.T) {
	bags, err := Parse(samplePage)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(bags) != 3 {
		t.Fatalf("expected 3 bags, got %d", len(bags))
	}

	first := bags[0]
	if first[models.FieldMarketIDClass] != "widgetEvent marketId-49119881" {
		t.Errorf("class attr: got %q", first[models.FieldMarketIDClass])
	}
	if first[models.FieldTime] != "15:30" {
		t.Errorf("time: got %q", first[models.FieldTime])
	}
	if first[models.FieldBackPrice] != "2.5" || first[models.FieldBackLiquidity] != "100" {
		t.Errorf("back: got %s (%s)", first[models.FieldBackPrice], first[models.FieldBackLiquidity])
	}
	if first[models.FieldLayPrice] != "2.6" || first[models.FieldLayLiquidity] != "80" {
		t.Errorf("lay: got %s (%s)", first[models.FieldLayPrice], first[models.FieldLayLiquidity])
	}
	if _, broken := first[models.FieldPricingError]; broken {
		t.Error("complete event must not carry pricing_error")
	}

	second := bags[1]
	if _, broken := second[models.FieldPricingError]; !broken {
		t.Error("event without selection block must carry pricing_error")
	}
	if _, ok := second[models.FieldBackPrice]; ok {
		t.Error("back_price must be absent when the selection block is missing")
	}

	third := bags[2]
	// Back column lacks a stake child: the pair must be absent together.
	if _, ok := third[models.FieldBackPrice]; ok {
		t.Error("back_price must be absent when stake is missing")
	}
	if _, ok := third[models.FieldLayPrice]; ok {
		t.Error("lay_price must be absent when the lay column is missing")
	}
	if _, broken := third[models.FieldPricingError]; broken {
		t.Error("present selection block must not carry pricing_error")
	}
}

func TestParseEndToEndNormalization(t *testing.T) {
	bags, err := Parse(samplePage)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	snap := Normalize(bags[0])
	want := models.Snapshot{
		MarketID:      "49119881",
		EventTime:     "15:30",
		Description:   "Team A to win",
		BackPrice:     "2.5",
		BackLiquidity: "100",
		LayPrice:      "2.6",
		LayLiquidity:  "80",
	}
	if snap != want {
		t.Errorf("normalized snapshot mismatch:\n got %+v\nwant %+v", snap, want)
	}

	broken := Normalize(bags[1])
	if broken.BackPrice != models.SentinelPriceError {
		t.Errorf("broken event back price: got %q", broken.BackPrice)
	}

	noID := Normalize(bags[2])
	if noID.Processable() {
		t.Error("event without marketId token must normalize to an unprocessable snapshot")
	}
}

func TestParseEmptyPage(t *testing.T) {
	bags, err := Parse("<html><body><p>nothing here</p></body></html>")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(bags) != 0 {
		t.Errorf("expected no bags, got %d", len(bags))
	}
}
