package models

// Column is a single named attribute of a row. Value is nil when the
// attribute is null.
type Column struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Row is an ordered set of column values for one table row, together
// with the name of the primary-key column. The order of Columns is the
// declaration order of the table's attributes and is preserved through
// estimation.
type Row struct {
	PrimaryKey string   `json:"primary_key"`
	Columns    []Column `json:"columns"`
}

// NewRow builds a row with the conventional "id" primary key.
func NewRow(columns ...Column) *Row {
	return &Row{PrimaryKey: "id", Columns: columns}
}

// Col is a convenience constructor for a column value.
func Col(name string, value any) Column {
	return Column{Name: name, Value: value}
}

// Value returns the value of the named column and whether the column
// exists on the row.
func (r *Row) Value(name string) (any, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}
