package importer

import (
	"fmt"
	"time"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// Pekao24Mapper normalizes Bank Pekao (Pekao24) CSV exports. The format
// is semicolon-delimited with Polish column names, day.month.year dates
// and comma-decimal amounts. It reports no running balance.
type Pekao24Mapper struct{}

const pekao24DateFormat = "02.01.2006"

const (
	pekao24ColBookingDate = "Data księgowania"
	pekao24ColValueDate   = "Data waluty"
	pekao24ColAmount      = "Kwota operacji"
	pekao24ColCurrency    = "Waluta"
	pekao24ColCategory    = "Kategoria"
	pekao24ColType        = "Typ operacji"
)

// Format returns the parser name.
func (p *Pekao24Mapper) Format() string { return "pekao24" }

// Required returns the columns a file must have for this mapper to apply.
func (p *Pekao24Mapper) Required() []string {
	return []string{
		pekao24ColBookingDate,
		pekao24ColValueDate,
		pekao24ColAmount,
		pekao24ColCurrency,
		pekao24ColCategory,
		pekao24ColType,
	}
}

// Map converts one Pekao24 row. Rows with an empty booking date are
// pending and skipped. The transaction date is the earlier of the value
// and booking dates.
func (p *Pekao24Mapper) Map(row RawRow) (model.Transaction, bool, error) {
	if row.Get(pekao24ColBookingDate) == "" {
		return model.Transaction{}, true, nil
	}

	valueDate, err := time.Parse(pekao24DateFormat, row.Get(pekao24ColValueDate))
	if err != nil {
		return model.Transaction{}, false, fieldErr(pekao24ColValueDate, fmt.Errorf("parsing date %q: %w", row.Get(pekao24ColValueDate), err))
	}
	bookingDate, err := time.Parse(pekao24DateFormat, row.Get(pekao24ColBookingDate))
	if err != nil {
		return model.Transaction{}, false, fieldErr(pekao24ColBookingDate, fmt.Errorf("parsing date %q: %w", row.Get(pekao24ColBookingDate), err))
	}

	amount, err := ParseAmount(row.Get(pekao24ColAmount))
	if err != nil {
		return model.Transaction{}, false, fieldErr(pekao24ColAmount, err)
	}

	currency, err := model.ParseCurrency(row.Get(pekao24ColCurrency))
	if err != nil {
		return model.Transaction{}, false, fieldErr(pekao24ColCurrency, err)
	}

	consumed := map[string]bool{
		pekao24ColBookingDate: true,
		pekao24ColValueDate:   true,
		pekao24ColAmount:      true,
		pekao24ColCurrency:    true,
		pekao24ColCategory:    true,
		pekao24ColType:        true,
	}
	var description model.Extras
	for _, col := range row.Columns() {
		if !consumed[col] {
			description = append(description, model.Extra{Key: col, Value: row.Get(col)})
		}
	}

	return model.Transaction{
		Date:        earlier(valueDate, bookingDate),
		Amount:      amount,
		Currency:    currency,
		Account:     model.AccountPekao24,
		Category:    row.Get(pekao24ColCategory),
		PaymentType: row.Get(pekao24ColType),
		Description: description,
	}, false, nil
}
