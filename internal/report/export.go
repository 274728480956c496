package report

import (
	"fmt"
	"io"
	"time"

	"github.com/pu9052473/shoreline-project/internal/domain"
	"github.com/xuri/excelize/v2"
)

const overviewSheet = "Overview"

// WriteWorkbook exports a result as an XLSX workbook: an overview sheet plus
// one sheet per section of the payload.
func WriteWorkbook(w io.Writer, r domain.PredictionResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", overviewSheet); err != nil {
		return fmt.Errorf("rename overview sheet: %w", err)
	}
	overview := [][]any{
		{"Result ID", r.ID},
		{"Model", r.ModelTitle},
		{"Horizon", r.HorizonLabel},
		{"Generated At", r.GeneratedAt.Format(time.RFC3339)},
		{"Degraded", r.Degraded},
		{"Status", r.StatusMessage},
		{"Payload", string(r.Payload.Kind)},
	}
	if err := writeRows(f, overviewSheet, overview); err != nil {
		return err
	}

	var err error
	switch r.Payload.Kind {
	case domain.PayloadSummary:
		err = writeSummary(f, r.Payload.Summary)
	case domain.PayloadPeriods:
		err = writePeriods(f, r.Payload.Periods)
	case domain.PayloadFeatures:
		err = writeFeatures(f, r.Payload.Features)
	}
	if err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, s *domain.StructuredSummary) error {
	if s == nil {
		return nil
	}
	if len(s.DailyTotals) > 0 {
		rows := [][]any{{"Date", "Total (m)"}}
		for _, d := range s.DailyTotals {
			rows = append(rows, []any{d.Date, d.TotalMeters})
		}
		if err := writeSheet(f, "Daily Totals", rows); err != nil {
			return err
		}
	}
	for _, table := range []struct {
		name string
		rows []domain.RankedTransect
	}{
		{"Top Transects", s.TopTransects},
		{"Bottom Transects", s.BottomTransects},
	} {
		if len(table.rows) == 0 {
			continue
		}
		rows := [][]any{{"Transect ID", "Week Sum (m)", "Annual Delta (m)", "Latitude", "Longitude"}}
		for _, t := range table.rows {
			rows = append(rows, []any{string(t.TransectID), cell(t.WeekSumMeters), cell(t.TypicalAnnualDelta), cell(t.MidLat), cell(t.MidLon)})
		}
		if err := writeSheet(f, table.name, rows); err != nil {
			return err
		}
	}
	return nil
}

func writePeriods(f *excelize.File, periods domain.PeriodList) error {
	rows := [][]any{{"Period", "Erosion (m)", "Confidence (%)", "Image"}}
	for _, p := range periods {
		_, label := p.Label()
		rows = append(rows, []any{label, p.Erosion, p.Confidence, p.Image})
	}
	return writeSheet(f, "Periods", rows)
}

func writeFeatures(f *excelize.File, features []domain.GeoFeature) error {
	rows := [][]any{{"Year", "Label", "Erosion", "Confidence (%)", "Avg Distance (m)", "Points"}}
	for _, g := range features {
		var year any
		if g.Year != nil {
			year = *g.Year
		}
		rows = append(rows, []any{year, g.Label, cell(g.Erosion), cell(g.Confidence), cell(g.AvgDistanceMeters), len(g.Coordinates)})
	}
	return writeSheet(f, "Transects", rows)
}

func writeSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell address: %w", err)
		}
		if err := f.SetSheetRow(sheet, addr, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// cell unwraps optional numbers; nil leaves the cell empty.
func cell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
