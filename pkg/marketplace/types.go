package marketplace

// SecurityGrade is the audit grade shown on a token card.
type SecurityGrade string

const (
	SecurityAPlus SecurityGrade = "A+"
	SecurityA     SecurityGrade = "A"
	SecurityBPlus SecurityGrade = "B+"
	SecurityB     SecurityGrade = "B"
)

// CompanyType classifies the entity behind a token.
type CompanyType string

const (
	CompanyReal       CompanyType = "real"
	CompanyCommunity  CompanyType = "community"
	CompanyUnverified CompanyType = "unverified"
)

// Token is one catalog entry. Entries are immutable within a session; the
// market figures are display numbers, not an authoritative feed.
type Token struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Price       float64       `json:"price"`
	Change24h   float64       `json:"change24h"`
	MarketCap   float64       `json:"marketCap"`
	Volume24h   float64       `json:"volume24h"`
	Holders     int64         `json:"holders"`
	TotalSupply int64         `json:"totalSupply"`
	Security    SecurityGrade `json:"security"`
	Verified    bool          `json:"verified"`
	Trending    bool          `json:"trending"`
	DAOVerified bool          `json:"daoVerified"`
	Rating      float64       `json:"communityRating"`
	FlagCount   int64         `json:"flagCount"`
	CompanyType CompanyType   `json:"companyType"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	WebsiteURL  string        `json:"websiteUrl,omitempty"`
	TwitterURL  string        `json:"twitterUrl,omitempty"`
}

// SortKey names the descending sort applied by Compute.
type SortKey string

const (
	SortByMarketCap SortKey = "marketCap"
	SortByPrice     SortKey = "price"
	SortByChange24h SortKey = "change24h"
	SortByVolume24h SortKey = "volume24h"
	SortByHolders   SortKey = "holders"
)

// CategoryAll is the wildcard category that keeps every entry.
const CategoryAll = "All"

// Categories returns the fixed category set, wildcard first.
func Categories() []string {
	return []string{CategoryAll, "Community", "Art", "Sports", "Environmental", "Gaming"}
}

// ParseSortKey maps a raw sort name to a SortKey, falling back to market cap
// for anything unknown: an invalid sort is a display convenience, not an error.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortByPrice, SortByChange24h, SortByVolume24h, SortByHolders:
		return SortKey(raw)
	default:
		return SortByMarketCap
	}
}
