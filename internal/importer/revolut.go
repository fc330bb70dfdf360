package importer

import (
	"fmt"
	"time"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// RevolutMapper normalizes Revolut CSV exports. The format is
// comma-delimited with second-granularity timestamps and a running
// balance after each transaction. It reports no spend category.
type RevolutMapper struct{}

const revolutDateFormat = "2006-01-02 15:04:05"

const (
	revolutColStarted   = "Started Date"
	revolutColCompleted = "Completed Date"
	revolutColAmount    = "Amount"
	revolutColBalance   = "Balance"
	revolutColCurrency  = "Currency"
	revolutColType      = "Type"
	revolutColState     = "State"
)

// Format returns the parser name.
func (p *RevolutMapper) Format() string { return "revolut" }

// Required returns the columns a file must have for this mapper to apply.
func (p *RevolutMapper) Required() []string {
	return []string{
		revolutColStarted,
		revolutColCompleted,
		revolutColAmount,
		revolutColBalance,
		revolutColCurrency,
		revolutColType,
	}
}

// Map converts one Revolut row. A REVERTED row with no completed date
// and no balance is an incomplete reversal and is skipped; a completed
// reversal still carries values and is kept. The transaction date is
// the earlier of the started and completed timestamps.
func (p *RevolutMapper) Map(row RawRow) (model.Transaction, bool, error) {
	if row.Get(revolutColState) == "REVERTED" &&
		row.Get(revolutColCompleted) == "" &&
		row.Get(revolutColBalance) == "" {
		return model.Transaction{}, true, nil
	}

	started, err := time.Parse(revolutDateFormat, row.Get(revolutColStarted))
	if err != nil {
		return model.Transaction{}, false, fieldErr(revolutColStarted, fmt.Errorf("parsing date %q: %w", row.Get(revolutColStarted), err))
	}
	completed, err := time.Parse(revolutDateFormat, row.Get(revolutColCompleted))
	if err != nil {
		return model.Transaction{}, false, fieldErr(revolutColCompleted, fmt.Errorf("parsing date %q: %w", row.Get(revolutColCompleted), err))
	}

	amount, err := ParseAmount(row.Get(revolutColAmount))
	if err != nil {
		return model.Transaction{}, false, fieldErr(revolutColAmount, err)
	}
	balance, err := ParseAmount(row.Get(revolutColBalance))
	if err != nil {
		return model.Transaction{}, false, fieldErr(revolutColBalance, err)
	}

	currency, err := model.ParseCurrency(row.Get(revolutColCurrency))
	if err != nil {
		return model.Transaction{}, false, fieldErr(revolutColCurrency, err)
	}

	consumed := map[string]bool{
		revolutColStarted:   true,
		revolutColCompleted: true,
		revolutColAmount:    true,
		revolutColBalance:   true,
		revolutColCurrency:  true,
		revolutColType:      true,
	}
	var description model.Extras
	for _, col := range row.Columns() {
		if !consumed[col] {
			description = append(description, model.Extra{Key: col, Value: row.Get(col)})
		}
	}

	return model.Transaction{
		Date:        earlier(started, completed),
		Amount:      amount,
		Currency:    currency,
		Account:     model.AccountRevolut,
		Balance:     balance,
		HasBalance:  true,
		PaymentType: row.Get(revolutColType),
		Description: description,
	}, false, nil
}
