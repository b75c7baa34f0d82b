package commands

import (
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/dorisql/internal/cli/output"
)

func renderResults(r *output.Renderer, rows *sql.Rows) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	var results [][]string
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return err
		}

		row := make([]string, len(cols))
		for i, val := range values {
			row[i] = formatValue(val)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return err
	}

	if err := r.Table(cols, results); err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeText, output.ModeMarkdown:
		r.Printf("(%d rows)\n", len(results))
	}
	return nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		// Doris returns DATETIME and DECIMAL as text
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
