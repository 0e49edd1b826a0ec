package types

import "github.com/angelmondragon/shopfront-backend/pkg/pagination"

// SuccessEnvelope is the body of every 2xx JSON response.
type SuccessEnvelope struct {
	Status           string           `json:"status,omitempty"`
	Mess             string           `json:"mess,omitempty"`
	Results          *int             `json:"results,omitempty"`
	NumOfCartItems   *int             `json:"numOfCartItems,omitempty"`
	PaginationResult *pagination.Meta `json:"paginationResult,omitempty"`
	Data             any              `json:"data,omitempty"`
	Token            string           `json:"token,omitempty"`
}

// ErrorEnvelope is the body of every error response.
type ErrorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	Errors     any      `json:"errors,omitempty"`
	Stack      []string `json:"stack,omitempty"`
}
