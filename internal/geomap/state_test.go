package geomap

import (
	"testing"

	"github.com/pu9052473/shoreline-project/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_SliderAndReset(t *testing.T) {
	s := NewState(DefaultOptions())
	s.Load("r1", []domain.GeoFeature{feature(2040), feature(2060), feature(2070)})

	view := s.View()
	assert.Equal(t, YearDomain{Min: 2040, Max: 2070}, view.Domain)
	assert.Len(t, view.Transects, 3)

	view = s.SetUpper(2060)
	assert.Equal(t, YearFilterRange{From: 2040, To: 2060}, view.Range)
	assert.Len(t, view.Transects, 2)

	view = s.Reset()
	assert.Len(t, view.Transects, 3)
}

func TestState_LoadResetsRangeOnNewSet(t *testing.T) {
	s := NewState(DefaultOptions())
	s.Load("r1", []domain.GeoFeature{feature(2040), feature(2070)})
	s.SetUpper(2050)

	s.Load("r1", []domain.GeoFeature{feature(2040), feature(2070)})
	assert.Equal(t, 2050, s.View().Range.To, "same set keeps the slider")

	s.Load("r2", []domain.GeoFeature{feature(2040), feature(2070)})
	assert.Equal(t, 2070, s.View().Range.To)
	assert.Equal(t, "r2", s.Key())
}

func TestState_EmptyKeepsLastViewport(t *testing.T) {
	s := NewState(DefaultOptions())
	s.Load("r1", []domain.GeoFeature{feature(2040), feature(2070)})
	fitted := s.View()
	require.True(t, fitted.Fitted)

	s.Load("r2", nil)
	empty := s.View()
	assert.True(t, empty.NoData)
	assert.Equal(t, fitted.Viewport, empty.Viewport)
}

func TestState_VisibleCollection(t *testing.T) {
	s := NewState(DefaultOptions())
	s.Load("r1", []domain.GeoFeature{feature(2040), feature(2060), feature(2070)})
	s.SetUpper(2060)

	fc := s.VisibleCollection()
	require.Len(t, fc.Features, 2)
	assert.Equal(t, 2040, fc.Features[0].Properties["year"])
}

func TestNewState_DefaultViewport(t *testing.T) {
	view := NewState(DefaultOptions()).View()
	assert.True(t, view.NoData)
	assert.Equal(t, DefaultViewport, view.Viewport)
	assert.Equal(t, DefaultDomain, view.Domain)
}
