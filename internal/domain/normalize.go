package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the outer object shared by every backend reply.
type Envelope struct {
	Success     bool
	Message     string
	ModelResult json.RawMessage
	Predictions json.RawMessage
	ModelOutput json.RawMessage
	ModelInfo   *ModelInfo
}

type envelopeJSON struct {
	Success     json.RawMessage `json:"success"`
	Message     json.RawMessage `json:"message"`
	ModelResult json.RawMessage `json:"model_result"`
	Predictions json.RawMessage `json:"predictions"`
	ModelOutput json.RawMessage `json:"model_output"`
	ModelInfo   json.RawMessage `json:"model_info"`
}

// DecodeEnvelope parses a backend body. It fails only when the body is not
// valid JSON; a valid document that is not an object decodes to an empty,
// unsuccessful envelope.
func DecodeEnvelope(body []byte) (Envelope, error) {
	if !json.Valid(body) {
		return Envelope{}, fmt.Errorf("decode envelope: invalid JSON body (%d bytes)", len(body))
	}
	var raw envelopeJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return Envelope{}, nil //nolint:nilerr // non-object JSON is a shape problem, not a transport one
	}

	env := Envelope{
		Success:     truthy(raw.Success),
		ModelResult: raw.ModelResult,
		Predictions: raw.Predictions,
		ModelOutput: raw.ModelOutput,
	}
	var msg string
	if json.Unmarshal(raw.Message, &msg) == nil {
		env.Message = msg
	}
	if present(raw.ModelInfo) {
		var info ModelInfo
		if json.Unmarshal(raw.ModelInfo, &info) == nil {
			env.ModelInfo = &info
		}
	}
	return env, nil
}

// Normalize converts a successful envelope into a tagged payload. It returns
// an UnrecognizedShapeError when no known forecast field can be read.
func Normalize(modelID string, env Envelope) (Payload, error) {
	switch {
	case present(env.ModelResult):
		if isFeatureCollection(env.ModelResult) {
			return featurePayload(DecodeFeatureCollection(env.ModelResult))
		}
		if !isObject(env.ModelResult) {
			return Payload{}, &UnrecognizedShapeError{Reason: "model_result is not an object"}
		}
		var summary StructuredSummary
		if err := json.Unmarshal(env.ModelResult, &summary); err != nil {
			return Payload{}, &UnrecognizedShapeError{Reason: "model_result: " + err.Error()}
		}
		return SummaryPayload(summary), nil
	case present(env.Predictions):
		return normalizePredictions(modelID, env.Predictions)
	case present(env.ModelOutput):
		if !isFeatureCollection(env.ModelOutput) {
			return Payload{}, &UnrecognizedShapeError{Reason: "model_output is not a FeatureCollection"}
		}
		return featurePayload(DecodeFeatureCollection(env.ModelOutput))
	}
	return Payload{}, &UnrecognizedShapeError{Reason: "no model_result, predictions, or model_output field"}
}

type periodJSON struct {
	Day         string   `json:"day"`
	Week        string   `json:"week"`
	Erosion     *float64 `json:"erosion"`
	ErosionRate *float64 `json:"erosion_rate"`
	Confidence  float64  `json:"confidence"`
	Image       string   `json:"image"`
	ImageURL    string   `json:"image_url"`
}

func normalizePredictions(modelID string, data json.RawMessage) (Payload, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return Payload{}, &UnrecognizedShapeError{Reason: "predictions is not an array"}
	}
	if len(entries) > 0 && hasKey(entries[0], "geometry") {
		return featurePayload(DecodeFeatures(data))
	}

	periods := make(PeriodList, 0, len(entries))
	for i, raw := range entries {
		var p periodJSON
		if err := json.Unmarshal(raw, &p); err != nil {
			return Payload{}, &UnrecognizedShapeError{Reason: fmt.Sprintf("prediction %d: %v", i, err)}
		}
		erosion := p.Erosion
		if erosion == nil {
			erosion = p.ErosionRate
		}
		if erosion == nil {
			return Payload{}, &UnrecognizedShapeError{Reason: fmt.Sprintf("prediction %d has no erosion value", i)}
		}
		period := Period{Day: p.Day, Week: p.Week, Erosion: *erosion, Confidence: p.Confidence, Image: p.Image}
		if period.Image == "" {
			period.Image = p.ImageURL
		}
		if period.Day == "" && period.Week == "" {
			if modelID == ShortTerm {
				period.Day = fmt.Sprintf("Day %d", i+1)
			} else {
				period.Week = fmt.Sprintf("Week %d", i+1)
			}
		}
		periods = append(periods, period)
	}
	return PeriodPayload(periods), nil
}

func featurePayload(features []GeoFeature, err error) (Payload, error) {
	if err != nil {
		return Payload{}, &UnrecognizedShapeError{Reason: err.Error()}
	}
	return FeaturePayload(features), nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isFeatureCollection(raw json.RawMessage) bool {
	var head struct {
		Type string `json:"type"`
	}
	return isObject(raw) && json.Unmarshal(raw, &head) == nil && head.Type == "FeatureCollection"
}

func hasKey(raw json.RawMessage, key string) bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}
	_, ok := m[key]
	return ok
}

// truthy mirrors loose truthiness for the success marker: false, 0, "",
// null, and a missing field are all unsuccessful.
func truthy(raw json.RawMessage) bool {
	if !present(raw) {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	}
	return true
}
