package dto

import "time"

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid query parameter"`
	ErrorDetails string    `json:"error,omitempty" example:"type: unknown report type"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
// err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	e := ErrorResponse{Message: message, Timestamp: time.Now()}
	if err != nil {
		e.ErrorDetails = err.Error()
	}
	return e
}
