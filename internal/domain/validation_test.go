package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateAmount(decimal.NewFromFloat(100.25)); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromInt(-10)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}

	huge, _ := decimal.NewFromString("1000000001")
	if err := ValidateAmount(huge); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}

	max, _ := decimal.NewFromString(MaxTransactionAmount)
	if err := ValidateAmount(max); err != nil {
		t.Fatalf("maximum amount should be allowed, got %v", err)
	}
}

func TestValidateDescription(t *testing.T) {
	t.Parallel()

	if err := ValidateDescription("monthly savings"); err != nil {
		t.Fatalf("expected valid description, got %v", err)
	}

	if err := ValidateDescription(""); err != nil {
		t.Fatalf("empty description should be allowed, got %v", err)
	}

	tooLong := strings.Repeat("a", MaxDescriptionLength+1)
	if err := ValidateDescription(tooLong); !errors.Is(err, ErrDescriptionTooLong) {
		t.Fatalf("expected ErrDescriptionTooLong, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"defaults applied", 0, 0, 50, 0},
		{"negative values normalized", -5, -10, 50, 0},
		{"values passed through", 100, 20, 100, 20},
		{"limit capped", 5000, 0, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ValidatePagination(tt.limit, tt.offset)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("got (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}
