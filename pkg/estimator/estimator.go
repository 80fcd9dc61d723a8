// Package estimator computes the theoretical minimum on-disk size of a
// single heap tuple under a PostgreSQL-style storage model: a fixed
// tuple header, a null bitmap of one bit per declared attribute, and
// per-column encoded sizes. It is an explainable approximation, not a
// reproduction of the physical layout (no alignment padding, varlena
// headers, or TOAST thresholds).
package estimator

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/golang-sql/civil"
	"github.com/shopspring/decimal"

	"github.com/heaplens/heaplens/pkg/apperrors"
	"github.com/heaplens/heaplens/pkg/models"
)

// HeaderSize is the fixed per-tuple header overhead in bytes.
const HeaderSize = 23

// Estimate returns the theoretical minimum byte size of row and a
// per-column breakdown in declaration order. The primary-key column is
// counted toward the null bitmap but excluded from the size sum and
// from the breakdown. Pure: it never mutates row and never does I/O.
func Estimate(row *models.Row) (*models.TupleEstimate, error) {
	if row == nil || len(row.Columns) == 0 {
		return nil, apperrors.ErrInvalidRow
	}

	// One bit per declared attribute, primary key included, rounded
	// up to a whole byte.
	bitmapSize := (len(row.Columns) + 7) / 8

	est := &models.TupleEstimate{
		HeaderSize:     HeaderSize,
		NullBitmapSize: bitmapSize,
		TotalBytes:     HeaderSize + bitmapSize,
		Columns:        make([]models.ColumnSize, 0, len(row.Columns)),
	}

	for _, col := range row.Columns {
		if col.Name == row.PrimaryKey {
			continue
		}
		size := encodedSize(col.Value)
		est.TotalBytes += size
		est.Columns = append(est.Columns, models.ColumnSize{
			Name:             col.Name,
			Bytes:            size,
			IsNull:           col.Value == nil,
			IsVariableLength: isVariableLength(col.Value),
		})
	}

	return est, nil
}

// encodedSize maps a value to its modeled encoded byte size. Nulls
// cost nothing outside the bitmap. Unrecognized non-null kinds fall
// back to the byte length of their string rendering rather than
// failing.
func encodedSize(v any) int {
	switch val := v.(type) {
	case nil:
		return 0
	case string:
		return len(val)
	case int, int32, int64:
		return 4
	case bool:
		return 1
	case civil.Date:
		return 4
	case decimal.Decimal:
		return 8
	case map[string]any:
		return documentSize(val)
	case json.RawMessage:
		return len(val)
	case time.Time:
		return 8
	default:
		return len(fmt.Sprint(val))
	}
}

// documentSize models a document's serialized length: JSON-shaped with
// a space after each name separator and between members, keys in
// sorted order. {"department": "HR"} measures 20 bytes.
func documentSize(v any) int {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		size := 2 // braces
		for i, k := range keys {
			if i > 0 {
				size += 2 // ", "
			}
			size += len(k) + 2 // quoted key
			size += 2          // ": "
			size += documentSize(val[k])
		}
		return size
	case []any:
		size := 2 // brackets
		for i, item := range val {
			if i > 0 {
				size += 2 // ", "
			}
			size += documentSize(item)
		}
		return size
	case string:
		return len(val) + 2 // quotes
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return len(fmt.Sprint(val))
		}
		return len(b)
	}
}

// isVariableLength reports whether the value's kind has no fixed slot:
// true exactly for text and structured/semi-structured values.
func isVariableLength(v any) bool {
	switch v.(type) {
	case string, map[string]any, json.RawMessage:
		return true
	default:
		return false
	}
}
