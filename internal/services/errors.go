// Package services provides the business logic layer between handlers and
// the analysis engine.
package services

// ServiceError carries a machine-readable code alongside the message so
// handlers can map failures to HTTP statuses without string matching.
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NewServiceError(code, message string) *ServiceError {
	return NewServiceErrorWithDetails(code, message, nil)
}

// NewServiceErrorWithDetails attaches structured context (limits, counts)
// that ends up in the error response body.
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{Code: code, Message: message, Details: details}
}
