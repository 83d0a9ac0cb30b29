package reports

import (
	"context"
)

// PayoutRow is one seller's settlement line for a month: how many delivered
// orders they fulfilled and the total owed in centavos.
type PayoutRow struct {
	SellerID      string
	SellerName    string
	Orders        int
	TotalCentavos int64
}

// Ports for outbound report sinks.
type (
	PayoutWriter interface {
		// AppendPayouts writes the settlement rows for a month and returns a
		// sink-specific reference to where they landed.
		AppendPayouts(ctx context.Context, year, month int, rows []PayoutRow) (ref string, err error)
	}
)
