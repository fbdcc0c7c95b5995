package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/extrame/xls"
)

// Старые кассовые выгрузки чаще всего в cp1252, но бывает и UTF-8.
var xlsCharsets = []string{"windows-1252", "utf-8", "iso-8859-1"}

// Ширину листа считаем сами: Row.LastCol() у части выгрузок врёт.
const xlsProbeCols = 256

func readXLS(r io.Reader, headerRow int) ([]map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	wb, err := openXLS(data)
	if err != nil {
		return nil, err
	}
	for i := 0; i < wb.NumSheets(); i++ {
		if rows := sheetRows(wb.GetSheet(i)); len(rows) > 0 {
			return tableToMaps(rows, headerRow), nil
		}
	}
	return nil, nil
}

func openXLS(data []byte) (*xls.WorkBook, error) {
	var errs []error
	for _, cs := range xlsCharsets {
		wb, err := xls.OpenReader(bytes.NewReader(data), cs)
		if err == nil && wb != nil {
			return wb, nil
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cs, err))
		}
	}
	if len(errs) == 0 {
		return nil, errors.New("xls: empty workbook")
	}
	return nil, fmt.Errorf("xls: %w", errors.Join(errs...))
}

// sheetRows — ячейки листа; хвостовые пустые строки отбрасываются.
func sheetRows(sheet *xls.WorkSheet) [][]string {
	if sheet == nil {
		return nil
	}
	grid := make([][]string, 0, int(sheet.MaxRow)+1)
	width, last := 0, -1
	for i := 0; i <= int(sheet.MaxRow); i++ {
		var cells []string
		if row := sheet.Row(i); row != nil {
			for j := 0; j < xlsProbeCols; j++ {
				if v := cleanCell(row.Col(j)); v != "" {
					for len(cells) < j {
						cells = append(cells, "")
					}
					cells = append(cells, v)
				}
			}
		}
		if len(cells) > 0 {
			last = i
			width = max(width, len(cells))
		}
		grid = append(grid, cells)
	}
	grid = grid[:last+1]
	for i := range grid {
		for len(grid[i]) < width {
			grid[i] = append(grid[i], "")
		}
	}
	return grid
}
