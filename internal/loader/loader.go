package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"FlowTally/internal/lookup"
	"FlowTally/internal/registry"
)

// openCSV opens a CSV file with a BOM-stripping decoder so spreadsheets
// exported from Excel load cleanly.
func openCSV(path string) (*os.File, *csv.Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	decoder := unicode.UTF8BOM.NewDecoder()
	reader := csv.NewReader(transform.NewReader(file, decoder))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	return file, reader, nil
}

// LoadProtocolRows reads the protocol reference CSV. The header must contain
// the Decimal and Keyword columns; other columns (as in the IANA export) are
// ignored.
func LoadProtocolRows(path string) ([]registry.Row, error) {
	file, reader, err := openCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open protocol file: %w", err)
	}
	defer file.Close()

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read protocol header: %w", err)
	}
	decimalCol, keywordCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Decimal":
			decimalCol = i
		case "Keyword":
			keywordCol = i
		}
	}
	if decimalCol < 0 || keywordCol < 0 {
		return nil, fmt.Errorf("invalid headers in %s, expected Decimal and Keyword columns", path)
	}

	var rows []registry.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read protocol row: %w", err)
		}
		if len(record) <= decimalCol || len(record) <= keywordCol {
			continue
		}
		rows = append(rows, registry.Row{
			Decimal: record[decimalCol],
			Keyword: record[keywordCol],
		})
	}
	return rows, nil
}

// LoadLookupRows reads the user-supplied lookup table CSV. The header must be
// exactly dstport,protocol,tag.
func LoadLookupRows(path string) ([]lookup.Row, error) {
	file, reader, err := openCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup file: %w", err)
	}
	defer file.Close()

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup header: %w", err)
	}
	expected := []string{"dstport", "protocol", "tag"}
	if len(header) != len(expected) {
		return nil, fmt.Errorf("invalid headers in %s, expected %v", path, expected)
	}
	for i, name := range expected {
		if strings.TrimSpace(header[i]) != name {
			return nil, fmt.Errorf("invalid headers in %s, expected %v", path, expected)
		}
	}

	var rows []lookup.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read lookup row: %w", err)
		}
		if len(record) != 3 {
			continue
		}
		rows = append(rows, lookup.Row{
			DstPort:  record[0],
			Protocol: record[1],
			Tag:      record[2],
		})
	}
	return rows, nil
}

// LoadProtocolRegistry loads and builds the protocol registry in one step.
func LoadProtocolRegistry(path string) (*registry.Registry, error) {
	rows, err := LoadProtocolRows(path)
	if err != nil {
		return nil, err
	}
	return registry.New(rows)
}

// LoadLookupIndex loads and builds the lookup index in one step.
func LoadLookupIndex(path string) (*lookup.Index, error) {
	rows, err := LoadLookupRows(path)
	if err != nil {
		return nil, err
	}
	return lookup.New(rows)
}
