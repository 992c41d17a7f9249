package captable

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadTable opens and decodes the cap table file at path.
//
// If the file does not declare a currency, it uses currency. Errors from
// opening the file are wrapped, so callers can test for fs.ErrNotExist.
func LoadTable(path, currency string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open cap table file %q: %w", path, err)
	}
	defer f.Close()

	t, err := DecodeTable(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode cap table file %q: %w", path, err)
	}
	if t.currency == "" {
		t.currency = currency
	}
	return t, nil
}

// SaveTable writes the cap table into the file at path, creating its
// directory if needed.
func SaveTable(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for cap table %q: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening cap table file %q for writing: %w", path, err)
	}
	defer file.Close()

	if err := EncodeTable(file, t); err != nil {
		return fmt.Errorf("could not encode cap table %q: %w", path, err)
	}
	return file.Close()
}
