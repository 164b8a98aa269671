package common

import "errors"

// Error codes shared across handlers. Domain failures are rejected operations
// rendered with one of these, never panics.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeNotFound         = "NOT_FOUND"
	CodeStockUnavailable = "STOCK_UNAVAILABLE"
	CodeCouponIneligible = "COUPON_INELIGIBLE"
	CodeDuplicateCode    = "DUPLICATE_CODE"
	CodeInternal         = "INTERNAL"
)

// AppError carries an error code and HTTP status alongside the message.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}
