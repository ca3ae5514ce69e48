// Package ledgercsv reads and writes deposit ledgers as CSV.
//
// Columns: id,type,amount,date,benchmark_price,benchmark_shares,notes
//
// On read the header decides the column order, id and benchmark_shares may be blank
// (a new id is generated, shares are computed from amount and price) and notes is optional.
package ledgercsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

// Header is the column layout written by Write
var Header = []string{"id", "type", "amount", "date", "benchmark_price", "benchmark_shares", "notes"}

var requiredColumns = []string{"type", "amount", "date", "benchmark_price"}

// Write encodes records, one row each, after the header
func Write(w io.Writer, records []domain.DepositRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.ID.String(),
			string(r.Type),
			r.Amount.String(),
			r.Date.Format(domain.DateFormat),
			r.BenchmarkPrice.String(),
			r.BenchmarkShares.String(),
			r.Notes,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write deposit %s: %w", r.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Read decodes a ledger for userID. Every row is validated; the first bad row fails the read.
func Read(r io.Reader, userID uuid.UUID, ticker string) ([]domain.DepositRecord, error) {
	if ticker == "" {
		ticker = domain.DefaultBenchmarkTicker
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty ledger: header row is required")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	records := make([]domain.DepositRecord, 0)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger: %w", err)
		}

		line, _ := reader.FieldPos(0)
		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		record, err := parseRow(field, userID, ticker)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, *record)
	}

	return records, nil
}

func parseRow(field func(string) string, userID uuid.UUID, ticker string) (*domain.DepositRecord, error) {
	depositType := domain.DepositType(strings.ToUpper(field("type")))

	amount, err := parseMoney("amount", field("amount"))
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	date, err := domain.ParseDate(field("date"))
	if err != nil {
		return nil, err
	}

	price, err := parseMoney("benchmark_price", field("benchmark_price"))
	if err != nil {
		return nil, &domain.InvalidPriceError{Field: "benchmark_price", Cause: err}
	}

	record, err := domain.NewDepositRecord(userID, depositType, amount, date, ticker, price, field("notes"))
	if err != nil {
		return nil, err
	}

	if raw := field("id"); raw != "" {
		if record.ID, err = uuid.Parse(raw); err != nil {
			return nil, fmt.Errorf("invalid id: %w", err)
		}
	}

	if raw := field("benchmark_shares"); raw != "" {
		if record.BenchmarkShares, err = domain.ParseDecimal("benchmark_shares", raw); err != nil {
			return nil, fmt.Errorf("invalid benchmark_shares: %w", err)
		}
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}

// parseMoney accepts plain decimals as well as "$1,234.56"
func parseMoney(field, s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return domain.ParseDecimal(field, s)
}
