package domain

import "time"

// PredictionRequest is the JSON body sent to a model endpoint.
type PredictionRequest struct {
	Timestamp string `json:"timestamp"`
}

// NewPredictionRequest stamps a request with the current clock time.
func NewPredictionRequest() PredictionRequest {
	return PredictionRequest{Timestamp: Now().Format(time.RFC3339Nano)}
}

// BackendReply is an OK response from a prediction backend. Synthetic is set
// when the reply was generated locally instead of by a real model.
type BackendReply struct {
	Body      []byte
	Synthetic bool
}
