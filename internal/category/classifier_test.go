package category

import (
	"testing"

	"github.com/varlik-app/varlik/internal/models"
)

func newTestClassifier() *Classifier {
	return New("TRY", "USD", Options{})
}

func TestClassifyExplicitType(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name string
		in   Input
		want models.Category
	}{
		{"retirement", Input{Symbol: "AGESA-BES", InstrumentType: "retirement", Currency: "TRY"}, models.CategoryRetirement},
		{"fund", Input{Symbol: "AFT", InstrumentType: "fund", Currency: "TRY"}, models.CategoryFund},
		{"metal", Input{Symbol: "GRAM", InstrumentType: "metal", Currency: "TRY"}, models.CategoryMetal},
		{"crypto", Input{Symbol: "PEPE", InstrumentType: "crypto", Currency: "USD"}, models.CategoryCrypto},
		{"stock in local currency", Input{Symbol: "THYAO", InstrumentType: "stock", Currency: "TRY"}, models.CategoryEquity},
		{"stock in foreign currency", Input{Symbol: "AAPL", InstrumentType: "stock", Currency: "USD"}, models.CategoryForeignETF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.in); got != tt.want {
				t.Errorf("Classify(%+v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassifyCascadeOrder(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name string
		in   Input
		want models.Category
	}{
		// Metal tokens beat everything but an explicit type.
		{"gold code", Input{Symbol: "XAUTRY", Currency: "TRY"}, models.CategoryMetal},
		{"silver code", Input{Symbol: "XAGUSD", Currency: "USD"}, models.CategoryMetal},
		{"gram gold", Input{Symbol: "GAU", Currency: "TRY"}, models.CategoryMetal},

		// Domestic exchange suffix.
		{"bist ticker", Input{Symbol: "THYAO.IS", Currency: "TRY"}, models.CategoryEquity},
		{"bist ticker foreign currency", Input{Symbol: "ASELS.IS", Currency: "USD"}, models.CategoryEquity},

		// Allow-listed foreign ETFs win even where the 3-letter fund-code
		// heuristic below would claim them.
		{"allowlisted etf three letters", Input{Symbol: "VOO", Currency: "USD"}, models.CategoryForeignETF},
		{"allowlisted etf local currency", Input{Symbol: "QQQ", Currency: "TRY"}, models.CategoryForeignETF},

		// 3-letter fund codes, minus crypto and fiat exclusions.
		{"tefas fund code", Input{Symbol: "AFT", Currency: "TRY"}, models.CategoryFund},
		{"fund code foreign currency", Input{Symbol: "NNF", Currency: "USD"}, models.CategoryFund},
		{"crypto exclusion", Input{Symbol: "BTC", Currency: "TRY"}, models.CategoryCrypto},
		{"digit breaks fund code", Input{Symbol: "AF1", Currency: "TRY"}, models.CategoryCrypto},

		// Currency-based fallback.
		{"foreign currency stock", Input{Symbol: "AAPL", Currency: "USD"}, models.CategoryForeignETF},
		{"foreign currency crypto symbol", Input{Symbol: "ETH", Currency: "USD"}, models.CategoryCrypto},
		{"fiat code", Input{Symbol: "EUR", Currency: "TRY"}, models.CategoryCurrency},
		{"fiat code in foreign currency", Input{Symbol: "USD", Currency: "TRY"}, models.CategoryCurrency},

		// Default bucket.
		{"unknown local symbol", Input{Symbol: "DOGEX", Currency: "TRY"}, models.CategoryCrypto},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.in); got != tt.want {
				t.Errorf("Classify(%+v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassifyNormalizesInput(t *testing.T) {
	c := newTestClassifier()

	if got := c.Classify(Input{Symbol: " thyao.is ", Currency: "try"}); got != models.CategoryEquity {
		t.Errorf("Classify lowercase ticker = %q, want %q", got, models.CategoryEquity)
	}
	if got := c.Classify(Input{Symbol: "voo", Currency: "usd"}); got != models.CategoryForeignETF {
		t.Errorf("Classify lowercase etf = %q, want %q", got, models.CategoryForeignETF)
	}
}

func TestClassifyCustomOverrideLists(t *testing.T) {
	c := New("TRY", "USD", Options{
		ForeignETFs:      []string{"ARKK"},
		CryptoExclusions: []string{"ZZZ"},
	})

	if got := c.Classify(Input{Symbol: "ARKK", Currency: "USD"}); got != models.CategoryForeignETF {
		t.Errorf("custom allowlist: got %q, want %q", got, models.CategoryForeignETF)
	}
	if got := c.Classify(Input{Symbol: "ZZZ", Currency: "TRY"}); got != models.CategoryCrypto {
		t.Errorf("custom crypto exclusion: got %q, want %q", got, models.CategoryCrypto)
	}
	// VOO is no longer allow-listed once the list is replaced; the fund-code
	// rule claims it instead.
	if got := c.Classify(Input{Symbol: "VOO", Currency: "USD"}); got != models.CategoryFund {
		t.Errorf("replaced allowlist: got %q, want %q", got, models.CategoryFund)
	}
}
