package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Bond is one row of the input universe.
type Bond struct {
	Price float64 // cents on the dollar
	Yield float64 // decimal annual yield, already scaled from the quoted value
}

// quotedYieldScale converts the yield column from its Bloomberg TACT quote to
// a decimal rate. The scaling is owned here; the core only ever sees decimal
// rates.
const quotedYieldScale = 100.0

// LoadBonds reads a two-column bond CSV: price in cents on the dollar, then
// the quoted yield. The first row is a header and is skipped.
func LoadBonds(path string) ([]Bond, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bond file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read bond file header: %w", err)
	}

	var bonds []Bond
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bond row: %w", err)
		}
		line++

		bond, err := parseBond(record)
		if err != nil {
			return nil, fmt.Errorf("bond file line %d: %w", line, err)
		}
		bonds = append(bonds, bond)
	}

	if len(bonds) == 0 {
		return nil, fmt.Errorf("bond file %s contains no data rows", path)
	}
	return bonds, nil
}

// parseBond converts one CSV record to a Bond, scaling the quoted yield to a
// decimal rate.
func parseBond(record []string) (Bond, error) {
	if len(record) < 2 {
		return Bond{}, fmt.Errorf("expected 2 columns (price, yield), got %d", len(record))
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
	if err != nil {
		return Bond{}, fmt.Errorf("invalid price %q: %w", record[0], err)
	}

	quoted, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return Bond{}, fmt.Errorf("invalid yield %q: %w", record[1], err)
	}

	return Bond{Price: price, Yield: quoted / quotedYieldScale}, nil
}

// WriteMatrix writes the bonds-by-rates probability matrix as a headerless
// CSV, one row per bond and one column per recovery rate, with fixed-point
// cells at the given precision.
func WriteMatrix(path string, matrix [][]float64, precision int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for _, row := range matrix {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = strconv.FormatFloat(v, 'f', precision, 64)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush output file %s: %w", path, err)
	}
	return file.Close()
}
