package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/DrDeranged/bloompad-final3/internal/catalog"
	"github.com/DrDeranged/bloompad-final3/internal/chat"
	"github.com/DrDeranged/bloompad-final3/pkg/wallet"
)

func TestSnapshotRoundTrip(test *testing.T) {
	test.Parallel()
	store := New()
	ctx := context.Background()

	if _, found, err := store.Load(ctx); err != nil || found {
		test.Fatalf("expected empty store, got found=%v err=%v", found, err)
	}

	snapshot := wallet.Snapshot{Connected: true, Address: "0xabc", Balances: map[string]int64{"BREW": 25}}
	if err := store.Save(ctx, snapshot); err != nil {
		test.Fatalf("save: %v", err)
	}
	loaded, found, err := store.Load(ctx)
	if err != nil || !found {
		test.Fatalf("load: found=%v err=%v", found, err)
	}
	if loaded.Address != "0xabc" || loaded.Balances["BREW"] != 25 {
		test.Fatalf("unexpected snapshot: %+v", loaded)
	}

	if err := store.Clear(ctx); err != nil {
		test.Fatalf("clear: %v", err)
	}
	if _, found, _ := store.Load(ctx); found {
		test.Fatalf("expected cleared snapshot")
	}
}

func TestLoadReturnsACopy(test *testing.T) {
	test.Parallel()
	store := New()
	ctx := context.Background()
	if err := store.Save(ctx, wallet.Snapshot{Connected: true, Balances: map[string]int64{"BREW": 25}}); err != nil {
		test.Fatalf("save: %v", err)
	}

	first, _, _ := store.Load(ctx)
	first.Balances["BREW"] = 999
	second, _, _ := store.Load(ctx)
	if second.Balances["BREW"] != 25 {
		test.Fatalf("stored snapshot mutated through a read: %v", second.Balances)
	}
}

func TestInsertTokenRejectsDuplicateSymbol(test *testing.T) {
	test.Parallel()
	store := New()
	ctx := context.Background()

	if err := store.InsertToken(ctx, catalog.CreatedToken{TokenID: "t1", Symbol: "RBR"}); err != nil {
		test.Fatalf("insert: %v", err)
	}
	err := store.InsertToken(ctx, catalog.CreatedToken{TokenID: "t2", Symbol: "RBR"})
	if !errors.Is(err, catalog.ErrDuplicateSymbol) {
		test.Fatalf("expected ErrDuplicateSymbol, got %v", err)
	}

	tokens, err := store.ListTokens(ctx)
	if err != nil {
		test.Fatalf("list: %v", err)
	}
	if len(tokens) != 1 {
		test.Fatalf("expected one token, got %d", len(tokens))
	}
}

func TestExchangesScopedBySession(test *testing.T) {
	test.Parallel()
	store := New()
	ctx := context.Background()

	for _, exchange := range []chat.Exchange{
		{MessageID: "m1", SessionID: "s1", Message: "first"},
		{MessageID: "m2", SessionID: "s2", Message: "other"},
		{MessageID: "m3", SessionID: "s1", Message: "second"},
	} {
		if err := store.AppendExchange(ctx, exchange); err != nil {
			test.Fatalf("append: %v", err)
		}
	}

	transcript, err := store.ListExchanges(ctx, "s1")
	if err != nil {
		test.Fatalf("list: %v", err)
	}
	if len(transcript) != 2 || transcript[0].Message != "first" || transcript[1].Message != "second" {
		test.Fatalf("unexpected transcript: %+v", transcript)
	}
}
