package enrich

import "fmt"

// ErrCircuitOpen is returned without calling the service while the
// breaker is open.
type ErrCircuitOpen struct {
	Endpoint string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("enrich: circuit open: %s", e.Endpoint)
}

// StatusError is a non-2xx answer from the service.
type StatusError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("enrich: %s: status %d: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("enrich: %s: status %d", e.Endpoint, e.Status)
}

// ServiceError is a 2xx envelope carrying success=false.
type ServiceError struct {
	Endpoint string
	Method   string
	Message  string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("enrich: %s: %s (method %s)", e.Endpoint, e.Message, e.Method)
}
