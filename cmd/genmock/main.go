// Command genmock writes demo-data fixtures: the mock backend reply and the
// normalized result for each model, plus a sample long-term FeatureCollection
// for exercising the map.
//
// Usage:
//
//	go run ./cmd/genmock -out testdata/fixtures
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pu9052473/shoreline-project/internal/adapter/backend"
	"github.com/pu9052473/shoreline-project/internal/domain"
	"github.com/pu9052473/shoreline-project/internal/geomap"
)

// Origin of the sample transects, on the default map centre.
var origin = orb.Point{145.12, -38.1}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "directory to write fixtures into")
	transects := flag.Int("transects", 24, "number of sample transects in the FeatureCollection")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	// Set a fixed clock for reproducible timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	mock := backend.NewMock()
	for _, m := range domain.Models() {
		reply, err := mock.Predict(context.Background(), m, domain.NewPredictionRequest())
		if err != nil {
			return fmt.Errorf("%s: %w", m.ID, err)
		}
		if err := writeRaw(filepath.Join(*outDir, m.ID+"_reply.json"), reply.Body); err != nil {
			return fmt.Errorf("writing %s reply: %w", m.ID, err)
		}

		result, err := normalize(m, reply.Body)
		if err != nil {
			return fmt.Errorf("%s: %w", m.ID, err)
		}
		if err := writeJSON(filepath.Join(*outDir, m.ID+"_result.json"), result); err != nil {
			return fmt.Errorf("writing %s result: %w", m.ID, err)
		}
		log.Printf("%s: %d periods", m.ID, len(result.Payload.Periods))
	}

	fc := sampleTransects(*transects)
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding feature collection: %w", err)
	}
	path := filepath.Join(*outDir, "long-term_features.geojson")
	if err := writeRaw(path, data); err != nil {
		return fmt.Errorf("writing feature collection: %w", err)
	}
	log.Printf("wrote %d transects: %s", len(fc.Features), path)
	return nil
}

func normalize(m domain.ModelDescriptor, body []byte) (domain.PredictionResult, error) {
	env, err := domain.DecodeEnvelope(body)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	payload, err := domain.Normalize(m.ID, env)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	return domain.PredictionResult{
		ID:            "fixture-" + m.ID,
		ModelID:       m.ID,
		ModelTitle:    m.Title,
		HorizonLabel:  m.Horizon,
		Payload:       payload,
		GeneratedAt:   domain.Now(),
		Degraded:      true,
		StatusMessage: domain.MsgMockMode,
	}, nil
}

// sampleTransects lays n short shore-normal lines along a gentle arc, with
// forecast years spread across the slider range.
func sampleTransects(n int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	span := float64(geomap.MaxYear - geomap.MinYear)
	for i := 0; i < n; i++ {
		t := float64(i) / math.Max(1, float64(n-1))
		base := orb.Point{
			origin[0] + 0.06*t,
			origin[1] - 0.01*math.Sin(t*math.Pi),
		}
		line := orb.LineString{
			base,
			{base[0] + 0.0008, base[1] - 0.0015},
			{base[0] + 0.0016, base[1] - 0.003},
		}

		f := geojson.NewFeature(line)
		year := geomap.MinYear + int(math.Round(t*span))
		f.Properties["year"] = year
		f.Properties["label"] = fmt.Sprintf("T%03d", i+1)
		f.Properties["avg_distance_m"] = math.Round((4+30*t)*100) / 100
		f.Properties["erosion"] = math.Round((0.2+1.1*t)*100) / 100
		f.Properties["confidence"] = math.Round((97-12*t)*10) / 10
		fc.Append(f)
	}
	return fc
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeRaw(path, data)
}

func writeRaw(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return os.WriteFile(path, data, 0o600)
}
