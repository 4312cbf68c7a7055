package marketplace

import (
	"sort"
	"strings"
)

// Query holds the three marketplace view inputs.
type Query struct {
	Category string
	Search   string
	SortKey  SortKey
}

// Compute returns the filtered, sorted view of the catalog. The result is a
// fresh slice; the catalog is never mutated. Ties under the sort key keep
// catalog order.
func Compute(catalog []Token, query Query) []Token {
	filtered := make([]Token, 0, len(catalog))
	for _, token := range catalog {
		if !matchesCategory(token, query.Category) {
			continue
		}
		if !matchesSearch(token, query.Search) {
			continue
		}
		filtered = append(filtered, token)
	}

	metric := sortMetric(query.SortKey)
	sort.SliceStable(filtered, func(left, right int) bool {
		return metric(filtered[left]) > metric(filtered[right])
	})
	return filtered
}

func matchesCategory(token Token, category string) bool {
	if category == "" || category == CategoryAll {
		return true
	}
	return token.Category == category
}

func matchesSearch(token Token, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(token.Name), needle) ||
		strings.Contains(strings.ToLower(token.Symbol), needle)
}

func sortMetric(key SortKey) func(Token) float64 {
	switch key {
	case SortByPrice:
		return func(token Token) float64 { return token.Price }
	case SortByChange24h:
		return func(token Token) float64 { return token.Change24h }
	case SortByVolume24h:
		return func(token Token) float64 { return token.Volume24h }
	case SortByHolders:
		return func(token Token) float64 { return float64(token.Holders) }
	default:
		return func(token Token) float64 { return token.MarketCap }
	}
}
