package scene

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/unicornviz/unicornviz/pkg/record"
)

// csvHeader matches the column names the upstream corpus uses, so an
// exported file can be re-ingested as a raw dataset.
var csvHeader = []string{
	record.FieldName,
	record.FieldValuation,
	record.FieldImpactScore,
	record.FieldGrowthRate,
	record.FieldSector,
	record.FieldCountry,
	record.FieldFoundedYear,
	record.FieldStatus,
}

// RenderCSV serializes a dataset as CSV (the dashboard's export button).
func RenderCSV(ds record.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, r := range ds {
		row := []string{
			r.Name,
			strconv.FormatFloat(r.Valuation, 'f', -1, 64),
			strconv.FormatFloat(r.ImpactScore, 'f', -1, 64),
			strconv.FormatFloat(r.GrowthRate, 'f', -1, 64),
			r.Sector,
			r.Country,
			strconv.Itoa(r.FoundedYear),
			string(r.Status),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row for %s: %w", r.Name, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return buf.Bytes(), nil
}
