package domain

// Table is a tabular projection of a validation result, ready to be written
// as a spreadsheet sheet. Cells are kept as raw strings; column kinds tell the
// writer which cells to render as money, dates or plain numbers.
type Table struct {
	Name          string
	Header        []string
	Rows          [][]string
	Widths        []float64
	MoneyColumns  []int
	// MoneyRows, when set, limits MoneyColumns to the rows marked true.
	MoneyRows     []bool
	DateColumns   []int
	NumberColumns []int
}

// IsMoneyColumn reports whether the column index holds monetary values.
func (t Table) IsMoneyColumn(col int) bool {
	return containsInt(t.MoneyColumns, col)
}

// IsMoneyCell reports whether the cell at the data row and column holds a
// monetary value.
func (t Table) IsMoneyCell(row, col int) bool {
	if !t.IsMoneyColumn(col) {
		return false
	}
	if t.MoneyRows == nil {
		return true
	}
	return row < len(t.MoneyRows) && t.MoneyRows[row]
}

// IsDateColumn reports whether the column index holds dates.
func (t Table) IsDateColumn(col int) bool {
	return containsInt(t.DateColumns, col)
}

// IsNumberColumn reports whether the column index holds plain numbers.
func (t Table) IsNumberColumn(col int) bool {
	return containsInt(t.NumberColumns, col)
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
