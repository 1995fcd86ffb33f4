package core

// Row is an ordered sequence of string cells.
type Row []string

// Table is an ordered sequence of rows. The first row is the header and every
// data row has the same number of cells as the header.
type Table []Row

// Header returns the header row, or nil for an empty table.
func (t Table) Header() Row {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// Data returns the rows after the header.
func (t Table) Data() []Row {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for i, row := range t {
		out[i] = append(Row(nil), row...)
	}
	return out
}
