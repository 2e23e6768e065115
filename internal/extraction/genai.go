package extraction

import (
	"context"
	"errors"
	"fmt"
)

// ErrServiceOverloaded marks the only transient condition the extractor retries.
var ErrServiceOverloaded = errors.New("GENAI_SERVICE_OVERLOADED")

// GenerateRequest is one structured-output call with an inline audio part.
type GenerateRequest struct {
	Instruction    string
	Audio          []byte
	MimeType       string
	ResponseSchema map[string]interface{}
}

// GenAIClient returns the raw text of the first candidate. Implementations
// wrap ErrServiceOverloaded for a transient overload and return any other
// error for everything else.
type GenAIClient interface {
	GenerateStructured(ctx context.Context, req GenerateRequest) (string, error)
	Endpoint() string
}

// APIError is a non-transient error response from the generative API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("genai API error %d %s: %s", e.StatusCode, e.Status, e.Message)
}
