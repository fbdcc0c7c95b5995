package fileio

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// readXLSX читает первый непустой лист книги.
func readXLSX(r io.Reader, headerRow int) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("xlsx sheet %q: %w", sheet, err)
		}
		if len(rows) > 0 {
			return tableToMaps(rows, headerRow), nil
		}
	}
	return nil, nil
}
