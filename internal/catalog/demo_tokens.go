package catalog

import "github.com/DrDeranged/bloompad-final3/pkg/marketplace"

// DemoTokens returns the built-in marketplace catalog. The market figures are
// fixed display numbers for the demo, not a live feed.
func DemoTokens() []marketplace.Token {
	return []marketplace.Token{
		{
			ID:          "1",
			Name:        "Brew & Bloom Café",
			Symbol:      "BBC",
			Description: "Community-driven café loyalty and rewards token",
			Category:    "Community",
			Price:       2.45,
			Change24h:   12.8,
			MarketCap:   450000,
			Volume24h:   85000,
			Holders:     1250,
			TotalSupply: 100000,
			Security:    marketplace.SecurityAPlus,
			Verified:    true,
			Trending:    true,
			DAOVerified: true,
			Rating:      4.8,
			FlagCount:   0,
			CompanyType: marketplace.CompanyReal,
			ImageURL:    "https://images.unsplash.com/photo-1495474472287-4d71bcdd2085?w=400",
			WebsiteURL:  "https://brewandbloom.com",
			TwitterURL:  "https://twitter.com/brewandbloom",
		},
		{
			ID:          "2",
			Name:        "Maya's Art Studio",
			Symbol:      "MAS",
			Description: "Digital art collective and NFT marketplace token",
			Category:    "Art",
			Price:       1.89,
			Change24h:   -3.2,
			MarketCap:   320000,
			Volume24h:   42000,
			Holders:     890,
			TotalSupply: 100000,
			Security:    marketplace.SecurityA,
			Verified:    true,
			DAOVerified: true,
			Rating:      4.6,
			FlagCount:   0,
			CompanyType: marketplace.CompanyReal,
			ImageURL:    "https://images.unsplash.com/photo-1541961017774-22349e4a1262?w=400",
		},
		{
			ID:          "3",
			Name:        "Sunset Skate Community",
			Symbol:      "SSC",
			Description: "Skateboarding community and event coordination",
			Category:    "Sports",
			Price:       0.95,
			Change24h:   25.4,
			MarketCap:   180000,
			Volume24h:   28000,
			Holders:     650,
			TotalSupply: 100000,
			Security:    marketplace.SecurityAPlus,
			Trending:    true,
			Rating:      4.2,
			FlagCount:   1,
			CompanyType: marketplace.CompanyCommunity,
			ImageURL:    "https://images.unsplash.com/photo-1449824913935-59a10b8d2000?w=400",
		},
		{
			ID:          "4",
			Name:        "The Greenhouse Collective",
			Symbol:      "TGC",
			Description: "Urban gardening and sustainable living community",
			Category:    "Environmental",
			Price:       3.21,
			Change24h:   8.7,
			MarketCap:   680000,
			Volume24h:   95000,
			Holders:     1580,
			TotalSupply: 100000,
			Security:    marketplace.SecurityAPlus,
			Verified:    true,
			DAOVerified: true,
			Rating:      4.9,
			FlagCount:   0,
			CompanyType: marketplace.CompanyReal,
			ImageURL:    "https://images.unsplash.com/photo-1416879595882-3373a0480b5b?w=400",
		},
		{
			ID:          "5",
			Name:        "Neon Nights Gaming",
			Symbol:      "NNG",
			Description: "Gaming guild and esports tournament platform",
			Category:    "Gaming",
			Price:       4.56,
			Change24h:   -8.1,
			MarketCap:   950000,
			Volume24h:   125000,
			Holders:     2100,
			TotalSupply: 100000,
			Security:    marketplace.SecurityA,
			Verified:    true,
			Rating:      3.8,
			FlagCount:   2,
			CompanyType: marketplace.CompanyUnverified,
			ImageURL:    "https://images.unsplash.com/photo-1542751371-adc38448a05e?w=400",
		},
		{
			ID:          "6",
			Name:        "Coastal Cleanup Crew",
			Symbol:      "CCC",
			Description: "Ocean conservation and beach cleanup initiatives",
			Category:    "Environmental",
			Price:       1.67,
			Change24h:   18.9,
			MarketCap:   240000,
			Volume24h:   38000,
			Holders:     780,
			TotalSupply: 100000,
			Security:    marketplace.SecurityAPlus,
			Verified:    true,
			Trending:    true,
			DAOVerified: true,
			Rating:      4.7,
			FlagCount:   0,
			CompanyType: marketplace.CompanyReal,
			ImageURL:    "https://images.unsplash.com/photo-1544551763-46a013bb70d5?w=400",
		},
	}
}
