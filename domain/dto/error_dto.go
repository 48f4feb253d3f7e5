package dto

// Error codes of the error envelope.
const (
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeUnauthorized     = "UNAUTHORIZED"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the {"error":{"code","message"}} envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
