package service

import (
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// Error metadata keys attached to split mismatch errors.
const (
	SplitExpectedHeader = "Split-Expected"
	SplitComputedHeader = "Split-Computed"
)

// toConnectError maps domain errors to Connect codes. Unclassified errors are
// logged and reported as Internal without leaking details.
func toConnectError(op string, err error) error {
	var mismatch *models.SplitMismatchError
	switch {
	case errors.As(err, &mismatch):
		connectErr := connect.NewError(connect.CodeInvalidArgument, err)
		connectErr.Meta().Set(SplitExpectedHeader, mismatch.Expected.String())
		connectErr.Meta().Set(SplitComputedHeader, mismatch.Computed.String())
		return connectErr
	case models.IsClientError(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case models.IsNotFound(err):
		return connect.NewError(connect.CodeNotFound, err)
	}
	slog.Error(op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, errors.New("internal error"))
}

// parseAmount parses a decimal string. Empty, non-numeric or out-of-bounds
// input is an invalid amount; sign checks happen in the ledger.
func parseAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %s is required", models.ErrInvalidAmount, field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", models.ErrInvalidAmount, field, s)
	}
	if err := models.CheckAmountBounds(field, d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func parseAmounts(field string, in map[string]string) (map[string]decimal.Decimal, error) {
	if in == nil {
		return nil, nil
	}
	out := make(map[string]decimal.Decimal, len(in))
	for id, s := range in {
		d, err := parseAmount(field+"["+id+"]", s)
		if err != nil {
			return nil, err
		}
		out[id] = d
	}
	return out, nil
}
