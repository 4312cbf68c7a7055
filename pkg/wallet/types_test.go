package wallet

import (
	"errors"
	"testing"
)

func TestNewSymbol(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		input   string
		wantErr error
		wantVal string
	}{
		{name: "valid", input: "bbc", wantVal: "BBC"},
		{name: "trimmed", input: "  brew ", wantVal: "BREW"},
		{name: "empty", input: "   ", wantErr: ErrInvalidSymbol},
		{name: "too long", input: "ABCDEFGHIJK", wantErr: ErrInvalidSymbol},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result, err := NewSymbol(tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.String() != tc.wantVal {
				t.Fatalf("expected %q, got %q", tc.wantVal, result.String())
			}
		})
	}
}

func TestNewAmount(t *testing.T) {
	t.Parallel()
	if _, err := NewAmount(0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := NewAmount(-5); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	amount, err := NewAmount(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount.Int64() != 7 {
		t.Fatalf("expected 7, got %d", amount.Int64())
	}
}

func TestStarterAllocationIsCopied(t *testing.T) {
	t.Parallel()
	first := StarterAllocation()
	first["BREW"] = 999
	second := StarterAllocation()
	if second["BREW"] != 25 || second["MAYA"] != 12 {
		t.Fatalf("starter allocation mutated across calls: %v", second)
	}
}
