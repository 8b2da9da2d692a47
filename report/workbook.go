package report

import (
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
)

const currencyFormat = `"$"#,##0.00`

// Categories broken out on the dashboard, matching the catalog's fixed set.
var dashboardCategories = []struct {
	label    string
	category string
}{
	{label: "Mens's Clothing", category: "men's clothing"},
	{label: "Women's Clothing", category: "women's clothing"},
	{label: "Electronics", category: "electronics"},
	{label: "Jewelery", category: "jewelery"},
}

// Workbook renders report tables into a persistent xlsx file. Each run adds
// one dated sheet plus a dashboard sheet; an existing file is appended to,
// never rewritten.
type Workbook struct {
	path string
}

// NewWorkbook returns a renderer writing to path.
func NewWorkbook(path string) *Workbook {
	return &Workbook{path: path}
}

// Render writes the table to a sheet named after date (YYYY-MM-DD) and adds
// a dashboard whose formulas reference it. When a sheet of that name exists
// already (a second run on the same day) the name gets a numeric suffix, so
// reruns append instead of failing. Returns the name of the sheet created.
func (w *Workbook) Render(date time.Time, table *Table) (string, error) {
	f, created, err := w.open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	sheetName := uniqueSheetName(f, date.Format("2006-01-02"))
	if _, err := f.NewSheet(sheetName); err != nil {
		return "", fmt.Errorf("create sheet %s: %w", sheetName, err)
	}
	if created {
		// A fresh file carries a default sheet that would otherwise linger.
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return "", fmt.Errorf("remove default sheet: %w", err)
		}
	}

	if err := writeDailySheet(f, sheetName, table); err != nil {
		return "", err
	}
	if err := writeDashboard(f, sheetName, table); err != nil {
		return "", err
	}
	if err := styleDailySheet(f, sheetName, table); err != nil {
		return "", err
	}

	if created {
		err = f.SaveAs(w.path)
	} else {
		err = f.Save()
	}
	if err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return sheetName, nil
}

func (w *Workbook) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(w.path); err == nil {
		f, err := excelize.OpenFile(w.path)
		if err != nil {
			return nil, false, fmt.Errorf("open workbook: %w", err)
		}
		return f, false, nil
	}
	return excelize.NewFile(), true, nil
}

func uniqueSheetName(f *excelize.File, base string) string {
	name := base
	for n := 2; ; n++ {
		index, err := f.GetSheetIndex(name)
		if err != nil || index == -1 {
			return name
		}
		name = fmt.Sprintf("%s_%d", base, n)
	}
}

// writeDailySheet lays out the serial-number column in A and the table in
// B1:J. Row 1 is the header; data starts at row 2. The serial numbers are
// increment formulas over the previous row, not literals.
func writeDailySheet(f *excelize.File, sheet string, table *Table) error {
	if err := f.SetCellValue(sheet, "A1", "S/N"); err != nil {
		return fmt.Errorf("write serial header: %w", err)
	}
	if err := f.SetCellValue(sheet, "A2", "1"); err != nil {
		return fmt.Errorf("write serial seed: %w", err)
	}
	for row := 3; row <= table.RowCount(); row++ {
		cell := fmt.Sprintf("A%d", row)
		formula := fmt.Sprintf("A%d + 1", row-1)
		if err := f.SetCellFormula(sheet, cell, formula); err != nil {
			return fmt.Errorf("write serial formula %s: %w", cell, err)
		}
	}

	header := make([]interface{}, len(table.Header))
	for i, name := range table.Header {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "B1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i, row := range table.Rows {
		cells := []interface{}{
			row.OrderID,
			row.ProductID,
			row.Title,
			row.Category,
			row.Quantity,
			row.Price,
			row.RatingRate,
			row.RatingCount,
			row.TotalPrice,
		}
		anchor := fmt.Sprintf("B%d", i+2)
		if err := f.SetSheetRow(sheet, anchor, &cells); err != nil {
			return fmt.Errorf("write data row %s: %w", anchor, err)
		}
	}

	return nil
}

// writeDashboard adds the rollup sheet. All formulas reference the daily
// sheet by name over rows 2..lastRow, so the layout contract with the daily
// sheet (header in row 1, category in E, totals in J) is load-bearing.
func writeDashboard(f *excelize.File, dailySheet string, table *Table) error {
	dashboard := uniqueSheetName(f, "Dashboard")
	if _, err := f.NewSheet(dashboard); err != nil {
		return fmt.Errorf("create dashboard sheet: %w", err)
	}

	lastRow := table.RowCount()
	if lastRow < 2 {
		lastRow = 2
	}

	labels := map[string]string{
		"E1": "Daily Sales Dashboard",
		"F1": fmt.Sprintf("Report For: %s", dailySheet),
		"E2": "Key Metrics",
		"E3": "Total Revenue",
		"E4": "Total Item Sold",
		"E5": "Number of Orders",
		"E6": "Sales by Category",
	}
	for cell, value := range labels {
		if err := f.SetCellValue(dashboard, cell, value); err != nil {
			return fmt.Errorf("write dashboard label %s: %w", cell, err)
		}
	}

	formulas := map[string]string{
		"F3": fmt.Sprintf("SUM('%s'!J2:J%d)", dailySheet, lastRow),
		"F4": fmt.Sprintf("SUMPRODUCT(--('%s'!F2:F%d))", dailySheet, lastRow),
		"F5": fmt.Sprintf("COUNTA('%s'!B2:B%d)", dailySheet, lastRow),
	}
	for i, entry := range dashboardCategories {
		cell := fmt.Sprintf("E%d", 7+i)
		if err := f.SetCellValue(dashboard, cell, entry.label); err != nil {
			return fmt.Errorf("write dashboard label %s: %w", cell, err)
		}
		formulas[fmt.Sprintf("F%d", 7+i)] = fmt.Sprintf(
			"SUMIF('%s'!E2:E%d, %q, '%s'!J2:J%d)",
			dailySheet, lastRow, entry.category, dailySheet, lastRow,
		)
	}
	for cell, formula := range formulas {
		if err := f.SetCellFormula(dashboard, cell, formula); err != nil {
			return fmt.Errorf("write dashboard formula %s: %w", cell, err)
		}
	}

	return styleDashboard(f, dashboard)
}

func styleDailySheet(f *excelize.File, sheet string, table *Table) error {
	lastRow := table.RowCount()
	if lastRow < 2 {
		lastRow = 2
	}

	plain, err := f.NewStyle(&excelize.Style{Border: thickBorder()})
	if err != nil {
		return fmt.Errorf("build border style: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   solidFill("BDD7EE"),
		Border: thickBorder(),
	})
	if err != nil {
		return fmt.Errorf("build header style: %w", err)
	}
	price, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   solidFill("FCE4D6"),
		Border: thickBorder(),
	})
	if err != nil {
		return fmt.Errorf("build price style: %w", err)
	}

	if err := f.SetCellStyle(sheet, "A1", fmt.Sprintf("J%d", lastRow), plain); err != nil {
		return fmt.Errorf("style sheet body: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "J1", header); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}
	// Quantity, price, and total columns get the price highlight.
	for _, col := range []string{"F", "G", "J"} {
		top := fmt.Sprintf("%s2", col)
		bottom := fmt.Sprintf("%s%d", col, lastRow)
		if err := f.SetCellStyle(sheet, top, bottom, price); err != nil {
			return fmt.Errorf("style column %s: %w", col, err)
		}
	}

	return nil
}

func styleDashboard(f *excelize.File, dashboard string) error {
	plain, err := f.NewStyle(&excelize.Style{Border: thickBorder()})
	if err != nil {
		return fmt.Errorf("build border style: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   solidFill("92D050"),
		Border: thickBorder(),
	})
	if err != nil {
		return fmt.Errorf("build title style: %w", err)
	}
	section, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      solidFill("FFD966"),
		Border:    thickBorder(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("build section style: %w", err)
	}
	numFmt := currencyFormat
	currency, err := f.NewStyle(&excelize.Style{
		Border:       thickBorder(),
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return fmt.Errorf("build currency style: %w", err)
	}

	if err := f.SetCellStyle(dashboard, "E1", "F10", plain); err != nil {
		return fmt.Errorf("style dashboard body: %w", err)
	}
	if err := f.SetCellStyle(dashboard, "E1", "F1", title); err != nil {
		return fmt.Errorf("style dashboard title: %w", err)
	}
	for _, cell := range []string{"E2", "E6"} {
		if err := f.SetCellStyle(dashboard, cell, cell, section); err != nil {
			return fmt.Errorf("style section %s: %w", cell, err)
		}
	}
	for _, cell := range []string{"F3", "F7", "F8", "F9", "F10"} {
		if err := f.SetCellStyle(dashboard, cell, cell, currency); err != nil {
			return fmt.Errorf("style currency cell %s: %w", cell, err)
		}
	}

	for _, m := range [][2]string{{"E2", "F2"}, {"E6", "F6"}} {
		if err := f.MergeCell(dashboard, m[0], m[1]); err != nil {
			return fmt.Errorf("merge %s:%s: %w", m[0], m[1], err)
		}
	}

	return nil
}

func thickBorder() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, 0, len(sides))
	for _, side := range sides {
		borders = append(borders, excelize.Border{Type: side, Color: "000000", Style: 5})
	}
	return borders
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}
