package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToString converts a loosely typed cell value to a trimmed string.
// Whole floats render without a fractional part, so a numeric cell holding
// 42 reads back as "42" rather than "42.000000".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// Cell returns row[i] as a string, or "" when the row is too short.
// Spreadsheet APIs drop trailing empty cells, so short rows are normal.
func Cell(row []any, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return ToString(row[i])
}
