// Command validate checks a captured backend reply, and optionally a GeoJSON
// file, against what the service can normalize and render. It reports each
// phase as PASS or FAIL and exits non-zero on any failure.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -model long-term \
//	  -reply testdata/fixtures/long-term_reply.json \
//	  -geojson testdata/fixtures/long-term_features.geojson
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/pu9052473/shoreline-project/internal/domain"
	"github.com/pu9052473/shoreline-project/internal/geomap"
	"github.com/pu9052473/shoreline-project/internal/report"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	modelID := flag.String("model", "", "model id the reply was captured from (short-term or long-term)")
	replyPath := flag.String("reply", "", "path to a captured backend reply body")
	geojsonPath := flag.String("geojson", "", "optional path to a GeoJSON FeatureCollection")
	flag.Parse()

	if *modelID == "" || (*replyPath == "" && *geojsonPath == "") {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*modelID, *replyPath, *geojsonPath))
}

func run(modelID, replyPath, geojsonPath string) int {
	fmt.Println("=== Shoreline Forecast Validation ===")
	fmt.Println()

	if _, err := domain.LookupModel(modelID); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	var phases []*phase
	if replyPath != "" {
		body, err := os.ReadFile(replyPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: read reply: %v\n", err)
			return 1
		}
		phases = append(phases, validateReply(modelID, body)...)
	}
	if geojsonPath != "" {
		data, err := os.ReadFile(geojsonPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: read geojson: %v\n", err)
			return 1
		}
		phases = append(phases, validateGeoJSON(data)...)
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateReply runs the envelope through the same steps as the controller.
func validateReply(modelID string, body []byte) []*phase {
	envelope := &phase{name: "Reply envelope"}
	env, err := domain.DecodeEnvelope(body)
	if err != nil {
		envelope.errorf("decode: %v", err)
		return []*phase{envelope}
	}
	if !env.Success {
		envelope.errorf("success marker missing or falsy (message: %q)", env.Message)
	}

	shape := &phase{name: "Reply shape"}
	payload, err := domain.Normalize(modelID, env)
	if err != nil {
		shape.errorf("%v", err)
		return []*phase{envelope, shape}
	}
	fmt.Printf("payload kind: %s\n", payload.Kind)

	content := &phase{name: fmt.Sprintf("Payload content (%s)", payload.Kind)}
	switch payload.Kind {
	case domain.PayloadSummary:
		checkSummary(content, payload.Summary)
	case domain.PayloadPeriods:
		checkPeriods(content, payload.Periods)
	case domain.PayloadFeatures:
		checkFeatures(content, payload.Features)
	}
	phases := []*phase{envelope, shape, content}
	if payload.Kind == domain.PayloadFeatures {
		phases = append(phases, checkMap(payload.Features))
	}
	return phases
}

func validateGeoJSON(data []byte) []*phase {
	decode := &phase{name: "GeoJSON decode"}
	features, err := domain.DecodeFeatureCollection(data)
	if err != nil {
		decode.errorf("%v", err)
		return []*phase{decode}
	}
	if len(features) == 0 {
		decode.errorf("no features with usable geometry")
	}
	fmt.Printf("geojson features: %d\n", len(features))

	content := &phase{name: "GeoJSON content"}
	checkFeatures(content, features)
	return []*phase{decode, content, checkMap(features)}
}

func checkSummary(p *phase, s *domain.StructuredSummary) {
	if s == nil {
		p.errorf("summary is empty")
		return
	}
	for i, d := range s.DailyTotals {
		if d.Date == "" {
			p.errorf("daily_totals[%d]: missing date", i)
		}
		if !finite(d.TotalMeters) {
			p.errorf("daily_totals[%d]: total_m is not finite", i)
		}
	}
	for name, rows := range map[string][]domain.RankedTransect{"top": s.TopTransects, "bottom": s.BottomTransects} {
		for i, r := range rows {
			if r.TransectID == "" {
				p.errorf("%s_transects[%d]: missing transect_id", name, i)
			}
			if r.MidLat != nil && (*r.MidLat < -90 || *r.MidLat > 90) {
				p.errorf("%s_transects[%d]: mid_lat %v out of range", name, i, *r.MidLat)
			}
			if r.MidLon != nil && (*r.MidLon < -180 || *r.MidLon > 180) {
				p.errorf("%s_transects[%d]: mid_lon %v out of range", name, i, *r.MidLon)
			}
		}
	}
	view := report.Summarize(*s)
	if view.Series != nil {
		fmt.Printf("series: %d points, sum %.3f m, mean %.3f m\n",
			len(view.Series.Points), view.Series.Stats.Sum, view.Series.Stats.Mean)
	}
}

func checkPeriods(p *phase, periods domain.PeriodList) {
	if len(periods) == 0 {
		p.errorf("no periods")
	}
	for i, c := range report.RenderGrid(periods).Cards {
		if c.Label == "" {
			p.errorf("periods[%d]: no day or week label", i)
		}
		if !finite(periods[i].Erosion) {
			p.errorf("periods[%d]: erosion is not finite", i)
		}
		if conf := periods[i].Confidence; conf < 0 || conf > 100 {
			p.errorf("periods[%d]: confidence %v outside 0..100", i, conf)
		}
	}
}

func checkFeatures(p *phase, features []domain.GeoFeature) {
	undated := 0
	for i, f := range features {
		if len(f.Coordinates) == 0 {
			p.errorf("features[%d]: no coordinates", i)
		}
		for j, c := range f.Coordinates {
			if c.Lon() < -180 || c.Lon() > 180 || c.Lat() < -90 || c.Lat() > 90 {
				p.errorf("features[%d]: coordinate %d (%v, %v) is not lng/lat", i, j, c.Lon(), c.Lat())
				break
			}
		}
		if f.Year == nil {
			undated++
		}
	}
	if undated > 0 {
		fmt.Printf("features without a year (never visible): %d\n", undated)
	}
}

func checkMap(features []domain.GeoFeature) *phase {
	p := &phase{name: "Map render"}
	d := geomap.DomainOf(features)
	view := geomap.Render(features, geomap.FullRange(d), geomap.DefaultViewport, geomap.DefaultOptions())
	if view.NoData {
		p.errorf("no transect visible over the full year range %d..%d", d.Min, d.Max)
		return p
	}
	if !view.Fitted {
		p.errorf("viewport could not be fitted")
	}
	fmt.Printf("map: %d/%d transects visible, zoom %d, years %d..%d\n",
		len(view.Transects), view.Total, view.Viewport.Zoom, d.Min, d.Max)
	return p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
