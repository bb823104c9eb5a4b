// Package csvio adapts the replay engine to its delimited-text
// surroundings: a reader that streams transaction records into the
// processor and a writer that renders the final account states.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finbatch/payments-engine/internal/models"
)

// ReadTransactions streams `type,client,tx,amount` records from r into
// apply, one at a time in encounter order. Fields are trimmed of
// surrounding whitespace; a blank amount means the record carries none
// (dispute, resolve, chargeback). Column order follows the header.
//
// A malformed record aborts the whole run with an error naming the record
// number. An unrecognized transaction type is NOT malformed; it is passed
// through for the processor to diagnose and skip.
func ReadTransactions(r io.Reader, apply func(models.Transaction) error) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	columns, err := headerColumns(header)
	if err != nil {
		return err
	}

	for n := 1; ; n++ {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("record %d: %w", n, err)
		}

		tx, err := parseRecord(columns, record)
		if err != nil {
			return fmt.Errorf("record %d: %w", n, err)
		}

		if err := apply(tx); err != nil {
			return fmt.Errorf("record %d: %w", n, err)
		}
	}
}

// headerColumns maps the required column names to their positions.
func headerColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"type", "client", "tx", "amount"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("header is missing %q column", required)
		}
	}
	return columns, nil
}

func parseRecord(columns map[string]int, record []string) (models.Transaction, error) {
	field := func(name string) string {
		i := columns[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var tx models.Transaction
	tx.Kind = models.Kind(field("type"))

	client, err := strconv.ParseUint(field("client"), 10, 16)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid client id %q: %w", field("client"), err)
	}
	tx.Client = models.ClientID(client)

	id, err := strconv.ParseUint(field("tx"), 10, 32)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid tx id %q: %w", field("tx"), err)
	}
	tx.Tx = models.TxID(id)

	if raw := field("amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("invalid amount %q: %w", raw, err)
		}
		if amount.IsNegative() {
			return models.Transaction{}, fmt.Errorf("negative amount %q", raw)
		}
		tx.Amount = amount
	}
	return tx, nil
}
