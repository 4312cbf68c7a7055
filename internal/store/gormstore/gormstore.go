// Package gormstore persists the demo's durable state (wallet snapshot,
// created tokens, chat transcript) through GORM over sqlite or postgres.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DrDeranged/bloompad-final3/internal/catalog"
	"github.com/DrDeranged/bloompad-final3/internal/chat"
	"github.com/DrDeranged/bloompad-final3/pkg/wallet"
)

const (
	// DefaultClientID keys the single wallet session of the demo client.
	DefaultClientID = "default"

	pgUniqueViolationCode = "23505"
	sqliteConstraintCode  = 19

	errorOperationStore = "store"
	errorSubjectToken   = "token"
	errorSubjectChat    = "chat"
	errorCodeInsert     = "insert"
	errorCodeList       = "list"
)

// Store implements the snapshot, token, and chat persistence contracts.
type Store struct {
	db       *gorm.DB
	clientID string
}

// New returns a Store backed by gorm.DB, scoped to the default demo client.
func New(db *gorm.DB) *Store {
	return &Store{db: db, clientID: DefaultClientID}
}

// ForClient returns a Store scoped to a different client id.
func (store *Store) ForClient(clientID string) *Store {
	return &Store{db: store.db, clientID: clientID}
}

// Migrate creates the backing tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&WalletSnapshot{}, &TokenRow{}, &ChatMessageRow{})
}

// Load reads the persisted wallet snapshot. Malformed stored balances surface
// as wallet.ErrCorruptSnapshot, which the wallet treats as an absent snapshot.
func (store *Store) Load(ctx context.Context) (wallet.Snapshot, bool, error) {
	var row WalletSnapshot
	err := store.db.WithContext(ctx).
		Where("client_id = ?", store.clientID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return wallet.Snapshot{}, false, nil
	}
	if err != nil {
		return wallet.Snapshot{}, false, wallet.WrapError(errorOperationStore, "snapshot", "load", err)
	}
	balances := map[string]int64{}
	if len(row.Balances) > 0 {
		if err := json.Unmarshal(row.Balances, &balances); err != nil {
			return wallet.Snapshot{}, false, wallet.WrapError(errorOperationStore, "snapshot", "decode", wallet.ErrCorruptSnapshot)
		}
	}
	return wallet.Snapshot{
		Connected: row.Connected,
		Address:   row.Address,
		Balances:  balances,
	}, true, nil
}

// Save upserts the wallet snapshot for this client.
func (store *Store) Save(ctx context.Context, snapshot wallet.Snapshot) error {
	raw, err := json.Marshal(snapshot.Balances)
	if err != nil {
		return wallet.WrapError(errorOperationStore, "snapshot", "encode", err)
	}
	row := WalletSnapshot{
		ClientID:  store.clientID,
		Connected: snapshot.Connected,
		Address:   snapshot.Address,
		Balances:  datatypes.JSON(raw),
		UpdatedAt: time.Now().UTC(),
	}
	err = store.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"connected", "address", "balances", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return wallet.WrapError(errorOperationStore, "snapshot", "save", err)
	}
	return nil
}

// Clear deletes the persisted snapshot. Clearing an absent snapshot is a no-op.
func (store *Store) Clear(ctx context.Context) error {
	err := store.db.WithContext(ctx).
		Where("client_id = ?", store.clientID).
		Delete(&WalletSnapshot{}).Error
	if err != nil {
		return wallet.WrapError(errorOperationStore, "snapshot", "clear", err)
	}
	return nil
}

// InsertToken persists an operator-created token. A symbol collision maps to
// catalog.ErrDuplicateSymbol.
func (store *Store) InsertToken(ctx context.Context, token catalog.CreatedToken) error {
	row := TokenRow{
		TokenID:       token.TokenID,
		Name:          token.Name,
		Symbol:        token.Symbol,
		Description:   token.Description,
		Category:      token.Category,
		PricePerToken: token.PricePerToken,
		TotalSupply:   token.TotalSupply,
		CreatorName:   token.CreatorName,
		CreatorEmail:  token.CreatorEmail,
		WebsiteURL:    token.WebsiteURL,
		TwitterURL:    token.TwitterURL,
		ImageURL:      token.ImageURL,
		CreatedAt:     token.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	err := store.db.WithContext(ctx).Create(&row).Error
	if isUniqueViolation(err) {
		return wallet.WrapError(errorOperationStore, errorSubjectToken, "duplicate", catalog.ErrDuplicateSymbol)
	}
	if err != nil {
		return wallet.WrapError(errorOperationStore, errorSubjectToken, errorCodeInsert, err)
	}
	return nil
}

// ListTokens returns created tokens in insertion order.
func (store *Store) ListTokens(ctx context.Context) ([]catalog.CreatedToken, error) {
	var rows []TokenRow
	err := store.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wallet.WrapError(errorOperationStore, errorSubjectToken, errorCodeList, err)
	}
	tokens := make([]catalog.CreatedToken, 0, len(rows))
	for _, row := range rows {
		tokens = append(tokens, catalog.CreatedToken{
			TokenID:       row.TokenID,
			Name:          row.Name,
			Symbol:        row.Symbol,
			Description:   row.Description,
			Category:      row.Category,
			PricePerToken: row.PricePerToken,
			TotalSupply:   row.TotalSupply,
			CreatorName:   row.CreatorName,
			CreatorEmail:  row.CreatorEmail,
			WebsiteURL:    row.WebsiteURL,
			TwitterURL:    row.TwitterURL,
			ImageURL:      row.ImageURL,
			CreatedAt:     row.CreatedAt,
		})
	}
	return tokens, nil
}

// AppendExchange persists one chat message/response pair.
func (store *Store) AppendExchange(ctx context.Context, exchange chat.Exchange) error {
	row := ChatMessageRow{
		MessageID: exchange.MessageID,
		SessionID: exchange.SessionID,
		Message:   exchange.Message,
		Response:  exchange.Response,
		CreatedAt: exchange.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := store.db.WithContext(ctx).Create(&row).Error; err != nil {
		return wallet.WrapError(errorOperationStore, errorSubjectChat, errorCodeInsert, err)
	}
	return nil
}

// ListExchanges returns a session transcript in insertion order.
func (store *Store) ListExchanges(ctx context.Context, sessionID string) ([]chat.Exchange, error) {
	var rows []ChatMessageRow
	err := store.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wallet.WrapError(errorOperationStore, errorSubjectChat, errorCodeList, err)
	}
	exchanges := make([]chat.Exchange, 0, len(rows))
	for _, row := range rows {
		exchanges = append(exchanges, chat.Exchange{
			MessageID: row.MessageID,
			SessionID: row.SessionID,
			Message:   row.Message,
			Response:  row.Response,
			CreatedAt: row.CreatedAt,
		})
	}
	return exchanges, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xFF == sqliteConstraintCode
	}
	return false
}
