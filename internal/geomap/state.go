package geomap

import (
	"sync"

	"github.com/paulmach/orb/geojson"
	"github.com/pu9052473/shoreline-project/internal/domain"
)

// State holds the slider position and last viewport for the active feature
// set. It is safe for concurrent use.
type State struct {
	mu       sync.Mutex
	opts     Options
	key      string
	features []domain.GeoFeature
	domain   YearDomain
	rng      YearFilterRange
	viewport Viewport
}

// NewState creates an empty map state.
func NewState(opts Options) *State {
	return &State{
		opts:     opts,
		domain:   DefaultDomain,
		rng:      FullRange(DefaultDomain),
		viewport: DefaultViewport,
	}
}

// Load installs the feature set identified by key. The range is reset when
// the key or the year domain changes; reloading the same set keeps it.
func (s *State) Load(key string, features []domain.GeoFeature) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := DomainOf(features)
	if key != s.key || d != s.domain {
		s.rng = FullRange(d)
	}
	s.key = key
	s.features = features
	s.domain = d
}

// Key returns the key of the loaded feature set.
func (s *State) Key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// SetUpper moves the slider's upper bound and returns the new view.
func (s *State) SetUpper(to int) MapView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = s.rng.WithUpper(s.domain, to)
	return s.renderLocked()
}

// Reset restores the full observed domain and returns the new view.
func (s *State) Reset() MapView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = FullRange(s.domain)
	return s.renderLocked()
}

// View renders the current state.
func (s *State) View() MapView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked()
}

// VisibleCollection returns the visible features as GeoJSON.
func (s *State) VisibleCollection() *geojson.FeatureCollection {
	s.mu.Lock()
	defer s.mu.Unlock()

	fc := geojson.NewFeatureCollection()
	for _, f := range VisibleFeatures(s.features, s.rng) {
		fc.Append(f.GeoJSON())
	}
	return fc
}

func (s *State) renderLocked() MapView {
	view := Render(s.features, s.rng, s.viewport, s.opts)
	s.viewport = view.Viewport
	return view
}
