package output

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/leapstack-labs/pkginfo/internal/warehouse"
)

// PricePerTiB is the on-demand query price in US dollars per TiB billed.
var PricePerTiB = decimal.NewFromInt(5)

var bytesPerTiB = decimal.NewFromInt(1 << 40)

// Summary is the human-readable form of job statistics.
type Summary struct {
	Cached        bool
	Processed     string
	Billed        string
	EstimatedCost string
}

// Summarize formats job statistics for display.
func Summarize(stats warehouse.Stats) Summary {
	return Summary{
		Cached:        stats.Cached,
		Processed:     humanize.IBytes(nonNegative(stats.BytesProcessed)),
		Billed:        humanize.IBytes(nonNegative(stats.BytesBilled)),
		EstimatedCost: EstimatedCost(stats.BytesBilled),
	}
}

// EstimatedCost returns the price of billedBytes in dollars with two decimals.
func EstimatedCost(billedBytes int64) string {
	if billedBytes <= 0 {
		return "0.00"
	}
	cost := decimal.NewFromInt(billedBytes).Div(bytesPerTiB).Mul(PricePerTiB)
	return cost.StringFixed(2)
}

func nonNegative(n int64) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}
