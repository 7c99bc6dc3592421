package models

// ErrorResponse is the JSON body for every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	OK  bool   `json:"ok"`
	Env string `json:"env"`
}
