// Package report renders catalog exports.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/animelist/watchlist-api/internal/core/domain"
)

// SheetName is the worksheet holding the catalog.
const SheetName = "Animes"

var catalogHeader = []any{"Anime ID", "Anime Title", "No of Seasons", "No of Episodes", "Anime Release Year"}

// CatalogSheet renders the catalog as a single-sheet xlsx workbook.
type CatalogSheet struct{}

func NewCatalogSheet() *CatalogSheet {
	return &CatalogSheet{}
}

func (CatalogSheet) Render(items []domain.Anime) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &catalogHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, a := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{a.ID, a.Title, a.Seasons, a.Episodes, a.ReleaseYear}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 10); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 40); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "C", "E", 20); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
