// Package store persists normalized transactions as CSV. This is the
// hand-off point between the normalization pipeline and downstream
// consumers; the format is one row per transaction with the description
// bag flattened to key=value pairs.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "date,amount,currency,account,balance,category,payment_type,description"

const (
	numFields      = 8
	dateFormat     = "2006-01-02 15:04:05"
	colDate        = 0
	colAmount      = 1
	colCurrency    = 2
	colAccount     = 3
	colBalance     = 4
	colCategory    = 5
	colPaymentType = 6
	colDescription = 7
)

// Read reads all transactions from a transactions.csv reader.
func Read(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := Unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// Write writes transactions (including header) to a writer.
func Write(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, txn := range txns {
		if err := cw.Write(Marshal(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// Marshal converts a Transaction to a CSV row.
func Marshal(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = txn.Date.Format(dateFormat)
	row[colAmount] = txn.Amount.String()
	row[colCurrency] = string(txn.Currency)
	row[colAccount] = string(txn.Account)
	if txn.HasBalance {
		row[colBalance] = txn.Balance.String()
	}
	row[colCategory] = txn.Category
	row[colPaymentType] = txn.PaymentType
	row[colDescription] = txn.Description.String()
	return row
}

// Unmarshal converts a CSV row to a Transaction.
func Unmarshal(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	txnDate, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	currency, err := model.ParseCurrency(record[colCurrency])
	if err != nil {
		return model.Transaction{}, err
	}
	account, err := model.ParseAccount(record[colAccount])
	if err != nil {
		return model.Transaction{}, err
	}

	txn := model.Transaction{
		Date:        txnDate,
		Amount:      amount,
		Currency:    currency,
		Account:     account,
		Category:    record[colCategory],
		PaymentType: record[colPaymentType],
		Description: parseExtras(record[colDescription]),
	}

	if record[colBalance] != "" {
		balance, err := decimal.NewFromString(record[colBalance])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
		}
		txn.Balance = balance
		txn.HasBalance = true
	}
	return txn, nil
}

// parseExtras splits "k=v;k=v" back into the description bag. Values
// are carried verbatim; keys must not contain "=" or ";".
func parseExtras(s string) model.Extras {
	if s == "" {
		return nil
	}
	var extras model.Extras
	for _, part := range strings.Split(s, ";") {
		key, value, _ := strings.Cut(part, "=")
		extras = append(extras, model.Extra{Key: key, Value: value})
	}
	return extras
}

// ReadFile loads transactions from path. A missing file yields no
// transactions, not an error.
func ReadFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// WriteFile writes transactions to path, replacing any existing file.
func WriteFile(path string, txns []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, txns); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
