package domain

// Model identifiers accepted by the prediction endpoints.
const (
	ShortTerm = "short-term"
	LongTerm  = "long-term"
)

// ModelDescriptor describes one registered forecast model.
type ModelDescriptor struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Horizon  string `json:"horizon"`
	Endpoint string `json:"endpoint"`
}

var models = []ModelDescriptor{
	{ID: ShortTerm, Title: "Short-Term Model", Horizon: "7 Days", Endpoint: "/api/predict/short-term"},
	{ID: LongTerm, Title: "Long-Term Model", Horizon: "1 Month", Endpoint: "/api/predict/long-term"},
}

// Models returns the registered model descriptors in display order.
func Models() []ModelDescriptor {
	out := make([]ModelDescriptor, len(models))
	copy(out, models)
	return out
}

// LookupModel returns the descriptor for id or an UnknownModelError.
func LookupModel(id string) (ModelDescriptor, error) {
	for _, m := range models {
		if m.ID == id {
			return m, nil
		}
	}
	return ModelDescriptor{}, &UnknownModelError{ModelID: id}
}
