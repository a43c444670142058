package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCheckAmountBounds(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"50", true},
		{"0.01", true},
		{"12.34567890123456789", false},
		{"12.3456789012345678", true},
		{"0.0000000000000001", true},
		{"1e-16", true},
		{"1e-17", false},
		{"1e-10000000", false},
		{"999999999999999999", true},
		{"1000000000000000000", false},
		{"1e18", false},
		{"1e2000000000", false},
		{"-1e-10000000", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.in)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.in, err)
			}
			err = CheckAmountBounds("amount", d)
			if tt.ok && err != nil {
				t.Errorf("CheckAmountBounds(%s) = %v, want nil", tt.in, err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("CheckAmountBounds(%s) = %v, want ErrInvalidAmount", tt.in, err)
			}
		})
	}
}
