// Package api exposes the question-answering pipeline over HTTP.
package api

// FilterParams is the fixed set of metadata filters a caller may supply.
// Unknown keys are rejected by shape; only exact-match equality is supported.
type FilterParams struct {
	Product string `json:"product,omitempty"`
	Company string `json:"company,omitempty"`
}

// AskRequest is the POST /ask payload. Question is a pointer so a missing
// field can be distinguished from an explicit empty string, which is valid.
type AskRequest struct {
	Question *string       `json:"question"`
	Filters  *FilterParams `json:"filters,omitempty"`
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// StatusResponse is the GET / body confirming the service is running.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status    string `json:"status"`
	Qdrant    string `json:"qdrant"`
	Timestamp string `json:"timestamp"`
}
