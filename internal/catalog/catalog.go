// Package catalog serves the marketplace token catalog: a fixed set of demo
// tokens merged with operator-created ones from the token store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DrDeranged/bloompad-final3/pkg/marketplace"
	"github.com/DrDeranged/bloompad-final3/pkg/wallet"
)

// Domain-level error values returned by token creation.
var (
	ErrInvalidToken    = errors.New("invalid token submission")
	ErrDuplicateSymbol = errors.New("token symbol already exists")
)

// CreatedToken is the stored form of an operator-created token.
type CreatedToken struct {
	TokenID       string
	Name          string
	Symbol        string
	Description   string
	Category      string
	PricePerToken float64
	TotalSupply   int64
	CreatorName   string
	CreatorEmail  string
	WebsiteURL    string
	TwitterURL    string
	ImageURL      string
	CreatedAt     time.Time
}

// TokenStore is the persistence contract for created tokens.
type TokenStore interface {
	InsertToken(ctx context.Context, token CreatedToken) error
	ListTokens(ctx context.Context) ([]CreatedToken, error)
}

// Input carries a token creation submission.
type Input struct {
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	PricePerToken float64 `json:"pricePerToken"`
	TotalSupply   int64   `json:"totalSupply"`
	CreatorName   string  `json:"creatorName"`
	CreatorEmail  string  `json:"creatorEmail"`
	WebsiteURL    string  `json:"websiteUrl"`
	TwitterURL    string  `json:"twitterUrl"`
	ImageURL      string  `json:"imageUrl"`
}

const minimumPricePerToken = 0.0001

// Validate checks the submission against the launch form rules.
func (input Input) Validate() error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: token name is required", ErrInvalidToken)
	}
	if _, err := wallet.NewSymbol(input.Symbol); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(input.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidToken)
	}
	if input.TotalSupply < 1 {
		return fmt.Errorf("%w: total supply must be greater than zero", ErrInvalidToken)
	}
	if input.PricePerToken < minimumPricePerToken {
		return fmt.Errorf("%w: price must be at least %g", ErrInvalidToken, minimumPricePerToken)
	}
	if strings.TrimSpace(input.CreatorName) == "" {
		return fmt.Errorf("%w: creator name is required", ErrInvalidToken)
	}
	if _, err := mail.ParseAddress(input.CreatorEmail); err != nil {
		return fmt.Errorf("%w: valid creator email is required", ErrInvalidToken)
	}
	for _, link := range []string{input.WebsiteURL, input.TwitterURL, input.ImageURL} {
		if link == "" {
			continue
		}
		parsed, err := url.Parse(link)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%w: %q is not a valid url", ErrInvalidToken, link)
		}
	}
	return nil
}

// Service merges the built-in demo catalog with stored tokens.
type Service struct {
	store TokenStore
	nowFn func() time.Time
}

// NewService wires a catalog Service.
func NewService(store TokenStore, now func() time.Time) (*Service, error) {
	if store == nil {
		return nil, errors.New("catalog: token store dependency is nil")
	}
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, nowFn: now}, nil
}

// Create validates and persists a token submission. New tokens start
// unverified with zero rating and no market history.
func (service *Service) Create(ctx context.Context, input Input) (marketplace.Token, error) {
	if err := input.Validate(); err != nil {
		return marketplace.Token{}, err
	}
	symbol, err := wallet.NewSymbol(input.Symbol)
	if err != nil {
		return marketplace.Token{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	created := CreatedToken{
		TokenID:       uuid.NewString(),
		Name:          strings.TrimSpace(input.Name),
		Symbol:        symbol.String(),
		Description:   strings.TrimSpace(input.Description),
		Category:      strings.TrimSpace(input.Category),
		PricePerToken: input.PricePerToken,
		TotalSupply:   input.TotalSupply,
		CreatorName:   strings.TrimSpace(input.CreatorName),
		CreatorEmail:  strings.TrimSpace(input.CreatorEmail),
		WebsiteURL:    input.WebsiteURL,
		TwitterURL:    input.TwitterURL,
		ImageURL:      input.ImageURL,
		CreatedAt:     service.nowFn().UTC(),
	}
	if err := service.store.InsertToken(ctx, created); err != nil {
		return marketplace.Token{}, err
	}
	return toMarketplaceToken(created), nil
}

// List returns the full catalog: demo entries first, then created tokens in
// insertion order.
func (service *Service) List(ctx context.Context) ([]marketplace.Token, error) {
	stored, err := service.store.ListTokens(ctx)
	if err != nil {
		return nil, err
	}
	tokens := DemoTokens()
	for _, created := range stored {
		tokens = append(tokens, toMarketplaceToken(created))
	}
	return tokens, nil
}

func toMarketplaceToken(created CreatedToken) marketplace.Token {
	return marketplace.Token{
		ID:          created.TokenID,
		Name:        created.Name,
		Symbol:      created.Symbol,
		Description: created.Description,
		Category:    created.Category,
		Price:       created.PricePerToken,
		MarketCap:   created.PricePerToken * float64(created.TotalSupply),
		TotalSupply: created.TotalSupply,
		Security:    marketplace.SecurityB,
		CompanyType: marketplace.CompanyUnverified,
		ImageURL:    created.ImageURL,
		WebsiteURL:  created.WebsiteURL,
		TwitterURL:  created.TwitterURL,
	}
}
