package models

// ColumnSize is one entry of a tuple-size breakdown.
type ColumnSize struct {
	Name             string `json:"name"`
	Bytes            int    `json:"bytes"`
	IsNull           bool   `json:"is_null"`
	IsVariableLength bool   `json:"is_variable_length"`
}

// TupleEstimate is the theoretical minimum on-disk size of one heap
// tuple: fixed header + null bitmap + per-column encoded sizes. The
// primary-key column is counted in the bitmap but never in Columns.
type TupleEstimate struct {
	HeaderSize     int          `json:"header_size"`
	NullBitmapSize int          `json:"null_bitmap_size"`
	TotalBytes     int          `json:"total_bytes"`
	Columns        []ColumnSize `json:"columns"`
}
