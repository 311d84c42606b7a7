// Package stockgraph holds a static map of relationships between stock
// symbols, used to expand an article's affected symbols into plausibly
// correlated ones. Pure lookup, no mutation.
package stockgraph

import "sort"

// Relations groups the known relationships of one symbol.
type Relations struct {
	SupplyChain []string
	Competitors []string
	SectorETF   []string
	Index       []string
}

var relations = map[string]Relations{
	"AAPL": {
		SupplyChain: []string{"TSM", "QCOM", "SWKS", "6758.T"},
		Competitors: []string{"GOOGL", "MSFT", "005930.KS"},
		SectorETF:   []string{"XLK", "QQQ"},
		Index:       []string{"SPY", "QQQ"},
	},
	"MSFT": {
		SupplyChain: []string{"NVDA", "AMD", "INTC"},
		Competitors: []string{"GOOGL", "AMZN", "CRM"},
		SectorETF:   []string{"XLK", "QQQ"},
		Index:       []string{"SPY", "QQQ"},
	},
	"NVDA": {
		SupplyChain: []string{"TSM", "ASML", "8035.T"},
		Competitors: []string{"AMD", "INTC", "QCOM"},
		SectorETF:   []string{"SMH", "XLK"},
		Index:       []string{"SPY", "QQQ"},
	},
	"TSM": {
		SupplyChain: []string{"ASML", "AMAT", "8035.T"},
		Competitors: []string{"INTC", "005930.KS"},
		SectorETF:   []string{"SMH"},
		Index:       []string{"SPY"},
	},
	"AMZN": {
		SupplyChain: []string{"UPS", "FDX"},
		Competitors: []string{"WMT", "BABA", "MSFT"},
		SectorETF:   []string{"XLY", "QQQ"},
		Index:       []string{"SPY", "QQQ"},
	},
	"TSLA": {
		SupplyChain: []string{"PCRFY", "ALB", "6752.T"},
		Competitors: []string{"GM", "F", "7203.T"},
		SectorETF:   []string{"XLY"},
		Index:       []string{"SPY", "QQQ"},
	},
	"7203.T": {
		SupplyChain: []string{"6902.T", "7259.T", "5401.T"},
		Competitors: []string{"7267.T", "7201.T", "TSLA"},
		SectorETF:   []string{"1306.T"},
		Index:       []string{"1321.T"},
	},
	"6758.T": {
		SupplyChain: []string{"TSM", "6723.T"},
		Competitors: []string{"005930.KS", "6752.T"},
		SectorETF:   []string{"1306.T"},
		Index:       []string{"1321.T"},
	},
	"8035.T": {
		SupplyChain: []string{"ASML", "AMAT"},
		Competitors: []string{"LRCX", "KLAC"},
		SectorETF:   []string{"1306.T"},
		Index:       []string{"1321.T"},
	},
	"9984.T": {
		SupplyChain: []string{"ARM", "BABA"},
		Competitors: []string{"GOLD"},
		SectorETF:   []string{"1306.T"},
		Index:       []string{"1321.T"},
	},
}

// RelatedSymbols returns the relationships of one symbol. The second return
// is false when the symbol is unknown.
func RelatedSymbols(symbol string) (Relations, bool) {
	rel, ok := relations[symbol]
	return rel, ok
}

// AllRelatedSymbols flattens every relationship of the symbol into one
// deduplicated list, preserving category order.
func AllRelatedSymbols(symbol string) []string {
	rel, ok := relations[symbol]
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, group := range [][]string{rel.SupplyChain, rel.Competitors, rel.SectorETF, rel.Index} {
		for _, s := range group {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// AffectedBySymbols returns the known symbols that list the given symbol in
// any of their relationship groups, sorted for deterministic output.
func AffectedBySymbols(symbol string) []string {
	var out []string
	for candidate := range relations {
		for _, related := range AllRelatedSymbols(candidate) {
			if related == symbol {
				out = append(out, candidate)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}
