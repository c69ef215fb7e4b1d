package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"financeiro/internal/models"

	"github.com/xuri/excelize/v2"
)

// Columns is the header of every export, mirroring the transaction fields.
var Columns = []string{"id", "type", "category", "value", "date", "description", "recurring"}

const sheetName = "Extrato"

// ExportFilename returns the download name for a month export, e.g.
// "extrato_5_2024.csv".
func ExportFilename(year int, month time.Month, ext string) string {
	return fmt.Sprintf("extrato_%d_%d.%s", int(month), year, ext)
}

func row(t models.Transaction) []string {
	return []string{
		strconv.FormatInt(t.ID, 10),
		string(t.Type),
		t.Category,
		strconv.FormatFloat(t.Value, 'f', 2, 64),
		t.Date.Format("2006-01-02"),
		t.Description,
		strconv.FormatBool(t.Recurring),
	}
}

// WriteCSV writes txs as UTF-8 CSV with a header row.
func WriteCSV(w io.Writer, txs []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, t := range txs {
		if err := cw.Write(row(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes txs as a single-sheet workbook with the same columns as
// WriteCSV; values stay numeric cells.
func WriteXLSX(w io.Writer, txs []models.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for r, t := range txs {
		values := []any{t.ID, string(t.Type), t.Category, t.Value, t.Date.Format("2006-01-02"), t.Description, t.Recurring}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("row %d: %w", r+2, err)
		}
	}

	_ = f.SetColWidth(sheetName, "B", "C", 15)
	_ = f.SetColWidth(sheetName, "F", "F", 30)

	_, err := f.WriteTo(w)
	return err
}
