// Package domain models coastal-erosion forecasts produced by the shoreline
// prediction backend.
//
// # Models
//
// Two forecast models are registered, each with its own endpoint on the
// backend:
//
//	short-term  "Short-Term Model"  7 Days   POST /api/predict/short-term
//	long-term   "Long-Term Model"   1 Month  POST /api/predict/long-term
//
// The registry is fixed at startup. Lookups for any other identifier fail
// with [UnknownModelError].
//
// # Backend Envelopes
//
// Every backend reply is a JSON object carrying a "success" marker and an
// optional "message". The forecast itself arrives in one of these fields:
//
//	model_result   short-horizon summary: meta, daily_totals,
//	               top_transects, bottom_transects
//	               (or a GeoJSON FeatureCollection for long-horizon proxies)
//	predictions    array of period entries ({week, erosion, confidence, image})
//	               or of GeoJSON features
//	model_output   GeoJSON FeatureCollection (raw long-horizon server)
//
// [Normalize] turns a decoded [Envelope] into a [Payload], a tagged union
// whose Kind says which of [StructuredSummary], [PeriodList], or
// [GeoFeature] slice it holds. Unknown shapes yield [UnrecognizedShapeError].
//
// # Coordinates
//
// GeoJSON stores positions as (longitude, latitude). [GeoFeature] keeps that
// order in its Coordinates; the map renderer swaps to (latitude, longitude)
// before any bounds or label computation.
//
// # Degraded Results
//
// When the backend cannot be reached, answers with a non-OK status, or sends
// a body that cannot be used, the result is built from [GenerateMock] instead
// and flagged Degraded with a StatusMessage describing why. A degraded
// result never has an empty StatusMessage.
package domain
