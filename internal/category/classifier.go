// Package category maps instrument identifiers to display buckets using an
// ordered rule cascade. Rules are data, evaluated top-down, first match wins;
// the override lists are configuration, not code.
package category

import (
	"strings"

	"github.com/varlik-app/varlik/internal/models"
)

// Input describes the instrument being classified.
type Input struct {
	Symbol         string
	InstrumentType string // explicit type when the source supplies one
	Currency       string // cost currency of the holding
}

// Rule is one predicate-to-bucket step of the cascade.
type Rule struct {
	Name  string
	Match func(in Input) (models.Category, bool)
}

// Options carries the configurable override lists.
type Options struct {
	ForeignETFs      []string // allow-listed foreign ETF tickers
	CryptoExclusions []string // 3-letter codes that are crypto, not fund codes
}

// Default override lists, used when Options leaves them empty.
var (
	defaultForeignETFs = []string{"VOO", "VTI", "SPY", "QQQ", "VWCE", "IWDA", "EUNL", "SXR8"}

	defaultCryptoExclusions = []string{"BTC", "ETH", "SOL", "XRP", "ADA", "DOT", "BNB", "TRX", "LTC", "DOG"}

	metalTokens = []string{"XAU", "XAG", "GAU", "GLD", "SLV", "ALTIN", "GUMUS", "GOLD", "SILVER"}

	fiatCodes = map[string]bool{
		"USD": true, "EUR": true, "GBP": true, "CHF": true, "JPY": true,
		"CAD": true, "AUD": true, "CNY": true, "RUB": true, "SAR": true, "AED": true,
	}
)

// domesticSuffix tags tickers listed on the domestic exchange (BIST).
const domesticSuffix = ".IS"

// Classifier evaluates the rule cascade for one currency pair.
type Classifier struct {
	local   string
	foreign string

	foreignETFs map[string]bool
	cryptoExcl  map[string]bool
	rules       []Rule
}

// New creates a Classifier. Empty option lists fall back to the defaults.
func New(local, foreign string, opts Options) *Classifier {
	etfs := opts.ForeignETFs
	if len(etfs) == 0 {
		etfs = defaultForeignETFs
	}
	crypto := opts.CryptoExclusions
	if len(crypto) == 0 {
		crypto = defaultCryptoExclusions
	}

	c := &Classifier{
		local:       local,
		foreign:     foreign,
		foreignETFs: toSet(etfs),
		cryptoExcl:  toSet(crypto),
	}
	c.rules = []Rule{
		{Name: "explicit_type", Match: c.matchExplicitType},
		{Name: "metal_token", Match: c.matchMetalToken},
		{Name: "domestic_suffix", Match: c.matchDomesticSuffix},
		{Name: "foreign_etf_allowlist", Match: c.matchForeignETFAllowlist},
		{Name: "fund_code", Match: c.matchFundCode},
		{Name: "currency_fallback", Match: c.matchCurrencyFallback},
	}
	return c
}

// Classify runs the cascade. Anything no rule claims is a crypto asset.
func (c *Classifier) Classify(in Input) models.Category {
	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
	in.InstrumentType = strings.ToLower(strings.TrimSpace(in.InstrumentType))
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))

	for _, rule := range c.rules {
		if bucket, ok := rule.Match(in); ok {
			return bucket
		}
	}
	return models.CategoryCrypto
}

// matchExplicitType honors a type field supplied by the source. Stocks are
// split by cost currency: foreign-currency stock means a foreign listing.
func (c *Classifier) matchExplicitType(in Input) (models.Category, bool) {
	switch in.InstrumentType {
	case "retirement", "pension", "bes":
		return models.CategoryRetirement, true
	case "fund":
		return models.CategoryFund, true
	case "metal":
		return models.CategoryMetal, true
	case "crypto":
		return models.CategoryCrypto, true
	case "stock", "equity":
		if in.Currency == c.foreign {
			return models.CategoryForeignETF, true
		}
		return models.CategoryEquity, true
	}
	return "", false
}

func (c *Classifier) matchMetalToken(in Input) (models.Category, bool) {
	for _, token := range metalTokens {
		if strings.Contains(in.Symbol, token) {
			return models.CategoryMetal, true
		}
	}
	return "", false
}

func (c *Classifier) matchDomesticSuffix(in Input) (models.Category, bool) {
	if strings.HasSuffix(in.Symbol, domesticSuffix) {
		return models.CategoryEquity, true
	}
	return "", false
}

// matchForeignETFAllowlist claims well-known foreign tickers ahead of the
// fund-code and currency heuristics below, so named exceptions beat them.
func (c *Classifier) matchForeignETFAllowlist(in Input) (models.Category, bool) {
	if c.foreignETFs[in.Symbol] {
		return models.CategoryForeignETF, true
	}
	return "", false
}

// matchFundCode treats 3-letter identifiers as domestic fund codes, except
// for symbols on the crypto exclusion list.
func (c *Classifier) matchFundCode(in Input) (models.Category, bool) {
	if len(in.Symbol) != 3 || c.cryptoExcl[in.Symbol] || fiatCodes[in.Symbol] {
		return "", false
	}
	for _, r := range in.Symbol {
		if r < 'A' || r > 'Z' {
			return "", false
		}
	}
	return models.CategoryFund, true
}

// matchCurrencyFallback buckets what is left by currency: foreign-currency
// holdings that are not known crypto symbols are foreign listings, and bare
// fiat codes are forex holdings. Known crypto symbols fall through to the
// crypto default.
func (c *Classifier) matchCurrencyFallback(in Input) (models.Category, bool) {
	if in.Currency == c.foreign && !c.cryptoExcl[in.Symbol] {
		return models.CategoryForeignETF, true
	}
	if fiatCodes[in.Symbol] {
		return models.CategoryCurrency, true
	}
	return "", false
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToUpper(strings.TrimSpace(item))] = true
	}
	return set
}
