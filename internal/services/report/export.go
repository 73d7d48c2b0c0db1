package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/bobmcallan/extrato/internal/models"
)

// ExportCSV serializes a rendered table, header row first.
func (s *Service) ExportCSV(table models.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(table.Columns); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
