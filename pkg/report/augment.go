// Package report derives summary columns from download-count tables and
// renders them as aligned text or Markdown.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/leapstack-labs/pkginfo/pkg/core"
)

// PercentLabel is the header of the column added by AddPercentages.
const PercentLabel = "percent"

// TotalLabel is the first cell of the row added by AddDownloadTotal.
const TotalLabel = "Total"

var (
	hundred = decimal.NewFromInt(100)
	printer = message.NewPrinter(language.English)
)

// AddPercentages inserts a percent column before the count column.
//
// The count is the last cell of each row. Each data row gets
// count / sum(counts) * 100 rounded half away from zero to two decimals
// ("48.13%"). The input table is not modified.
func AddPercentages(rows core.Table) (core.Table, error) {
	header := rows.Header()
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: percentages need a category and a count column", core.ErrFormat)
	}

	data := rows.Data()
	counts := make([]int64, len(data))
	var total int64
	for i, row := range data {
		n, err := ParseCount(row[len(row)-1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		counts[i] = n
		total += n
	}

	out := make(core.Table, 0, len(rows))
	out = append(out, insertBeforeLast(header, PercentLabel))
	for i, row := range data {
		out = append(out, insertBeforeLast(row, Percent(counts[i], total)))
	}
	return out, nil
}

// Percent formats part/total as a percentage with two decimals.
// A zero total yields "0.00%".
func Percent(part, total int64) string {
	if total == 0 {
		return "0.00%"
	}
	p := decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(total))
	return p.StringFixed(2) + "%"
}

// AddDownloadTotal appends a row holding the sum of the count column.
//
// The row reads ["Total", "", ..., "<sum>"]: the sum is grouped with
// thousands separators and every cell between the label and the sum is empty.
// Count cells may already carry separators. The input table is not modified.
func AddDownloadTotal(rows core.Table) (core.Table, error) {
	header := rows.Header()
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: a total needs a label and a count column", core.ErrFormat)
	}

	var total int64
	for i, row := range rows.Data() {
		n, err := ParseCount(row[len(row)-1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		total += n
	}

	totalRow := make(core.Row, len(header))
	totalRow[0] = TotalLabel
	totalRow[len(totalRow)-1] = GroupThousands(total)

	out := rows.Clone()
	return append(out, totalRow), nil
}

// ParseCount parses an integer count, ignoring thousands separators.
func ParseCount(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: count %q is not an integer", core.ErrFormat, s)
	}
	return n, nil
}

// GroupThousands formats n with comma thousands separators.
func GroupThousands(n int64) string {
	return printer.Sprintf("%d", n)
}

func insertBeforeLast(row core.Row, cell string) core.Row {
	out := make(core.Row, 0, len(row)+1)
	out = append(out, row[:len(row)-1]...)
	out = append(out, cell, row[len(row)-1])
	return out
}
