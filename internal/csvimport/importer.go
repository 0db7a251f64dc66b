// Package csvimport reads bank-export CSV files into transaction records.
// The expected schema is Date,Description,Amount with an optional
// Counterparty column; dates may use any of the common export formats.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"fjacquet/txn-ledger/internal/dateutils"
	"fjacquet/txn-ledger/internal/fileutils"
	"fjacquet/txn-ledger/internal/ledgererror"
	"fjacquet/txn-ledger/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// row maps one CSV record.
type row struct {
	Date         string `csv:"Date"`
	Description  string `csv:"Description"`
	Amount       string `csv:"Amount"`
	Counterparty string `csv:"Counterparty"`
}

// ReadFile parses a CSV export into transactions. A malformed file or row is
// a FileIntegrityError: a partially read export is never handed to the
// classification batch.
func ReadFile(filePath string, delimiter rune) ([]models.Transaction, error) {
	if !fileutils.FileExists(filePath) {
		return nil, &ledgererror.FileIntegrityError{Path: filePath, Reason: "CSV file not found"}
	}

	f, err := fileutils.OpenFile(filePath)
	if err != nil {
		return nil, &ledgererror.FileIntegrityError{Path: filePath, Reason: "failed to open CSV file", Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close CSV file")
		}
	}()

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = delimiter
		return r
	})

	var rows []row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, &ledgererror.FileIntegrityError{Path: filePath, Reason: "failed to parse CSV file", Err: err}
	}

	transactions := make([]models.Transaction, 0, len(rows))
	for i, r := range rows {
		tx, err := r.toTransaction()
		if err != nil {
			return nil, &ledgererror.FileIntegrityError{
				Path:   filePath,
				Reason: fmt.Sprintf("invalid record on data row %d", i+1),
				Err:    err,
			}
		}
		transactions = append(transactions, tx)
	}

	log.WithFields(logrus.Fields{
		"file":  filePath,
		"count": len(transactions),
	}).Info("Read CSV transactions")
	return transactions, nil
}

func (r row) toTransaction() (models.Transaction, error) {
	date, _, err := dateutils.ParseDate(r.Date)
	if err != nil {
		return models.Transaction{}, err
	}

	description := strings.TrimSpace(r.Description)
	if description == "" {
		return models.Transaction{}, fmt.Errorf("empty description")
	}

	amount, err := decimal.NewFromString(cleanAmount(r.Amount))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount '%s': %w", r.Amount, err)
	}

	return models.Transaction{
		Date:         date,
		Description:  description,
		Amount:       amount,
		Counterparty: strings.TrimSpace(r.Counterparty),
	}, nil
}

// cleanAmount strips grouping characters some banks put in amount columns.
func cleanAmount(s string) string {
	return strings.NewReplacer(" ", "", "'", "", ",", "").Replace(strings.TrimSpace(s))
}
