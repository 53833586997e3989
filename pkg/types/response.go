package types

// SuccessEnvelope is the JSON wrapper for every successful response.
type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorEnvelope is the JSON wrapper for every failed response.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
