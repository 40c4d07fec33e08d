package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode identifies an error category on the wire
type ErrorCode string

const (
	ErrorCode_HTTP_OK           ErrorCode = "OK"
	ErrorCode_INTERNAL          ErrorCode = "INTERNAL"
	ErrorCode_INVALID_ARGUMENT  ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_NOT_FOUND         ErrorCode = "NOT_FOUND"
	ErrorCode_ALREADY_EXISTS    ErrorCode = "ALREADY_EXISTS"
	ErrorCode_PERMISSION_DENIED ErrorCode = "PERMISSION_DENIED"
	ErrorCode_UNAUTHENTICATED   ErrorCode = "UNAUTHENTICATED"
	ErrorCode_FORBIDDEN         ErrorCode = "FORBIDDEN"

	ErrorCode_AUTH_INVALID_TOKEN         ErrorCode = "AUTH_INVALID_TOKEN"
	ErrorCode_AUTH_TOKEN_EXPIRED         ErrorCode = "AUTH_TOKEN_EXPIRED"
	ErrorCode_AUTH_USER_NOT_FOUND        ErrorCode = "AUTH_USER_NOT_FOUND"
	ErrorCode_AUTH_USER_ALREADY_EXISTS   ErrorCode = "AUTH_USER_ALREADY_EXISTS"
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN ErrorCode = "AUTH_INVALID_REFRESH_TOKEN"
	ErrorCode_AUTH_OAUTH_FAILED          ErrorCode = "AUTH_OAUTH_FAILED"

	ErrorCode_HUB_NOT_FOUND      ErrorCode = "HUB_NOT_FOUND"
	ErrorCode_HUB_ARCHIVED       ErrorCode = "HUB_ARCHIVED"
	ErrorCode_HUB_SLUG_TAKEN     ErrorCode = "HUB_SLUG_TAKEN"
	ErrorCode_HUB_NOT_MEMBER     ErrorCode = "HUB_NOT_MEMBER"
	ErrorCode_HUB_ALREADY_MEMBER ErrorCode = "HUB_ALREADY_MEMBER"

	ErrorCode_MESSAGE_NOT_FOUND   ErrorCode = "MESSAGE_NOT_FOUND"
	ErrorCode_MESSAGE_INVALID     ErrorCode = "MESSAGE_INVALID"
	ErrorCode_POLL_INVALID_OPTION ErrorCode = "POLL_INVALID_OPTION"

	ErrorCode_STREAM_NOT_ACTIVE     ErrorCode = "STREAM_NOT_ACTIVE"
	ErrorCode_STREAM_ALREADY_ACTIVE ErrorCode = "STREAM_ALREADY_ACTIVE"
	ErrorCode_RECORDING_FAILED      ErrorCode = "RECORDING_FAILED"

	ErrorCode_ANALYTICS_FAILED ErrorCode = "ANALYTICS_FAILED"
	ErrorCode_SEARCH_FAILED    ErrorCode = "SEARCH_FAILED"

	ErrorCode_INTEGRATION_LIVEKIT_FAILED      ErrorCode = "INTEGRATION_LIVEKIT_FAILED"
	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = "INTEGRATION_STORAGE_FAILED"
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = "INTEGRATION_CACHE_FAILED"
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = "INTEGRATION_EXTERNAL_API_FAILED"

	ErrorCode_DB_CONNECTION_FAILED  ErrorCode = "DB_CONNECTION_FAILED"
	ErrorCode_DB_QUERY_FAILED       ErrorCode = "DB_QUERY_FAILED"
	ErrorCode_DB_TRANSACTION_FAILED ErrorCode = "DB_TRANSACTION_FAILED"

	ErrorCode_INVALID_PAYLOAD ErrorCode = "INVALID_PAYLOAD"
)

// String implements fmt.Stringer
func (c ErrorCode) String() string {
	return string(c)
}

// AppError is the custom error type for the application
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrAlreadyExists(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_ALREADY_EXISTS,
		Message:  fmt.Sprintf("%s already exists", resource),
	}
}

func ErrPermissionDenied(action string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_PERMISSION_DENIED,
		Message:  fmt.Sprintf("Permission denied: %s", action),
	}
}

func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_UNAUTHENTICATED,
		Message:  "Authentication required",
	}
}

// ErrForbidden represents a forbidden error
func ErrForbidden(message string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_FORBIDDEN,
		Message:  message,
	}
}

// Authentication Errors
func ErrInvalidToken() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_INVALID_TOKEN,
		Message:  "Invalid authentication token",
	}
}

func ErrTokenExpired() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_TOKEN_EXPIRED,
		Message:  "Authentication token has expired",
	}
}

func ErrUserNotFound() AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_AUTH_USER_NOT_FOUND,
		Message:  "User not found",
	}
}

func ErrUserAlreadyExists(email string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_AUTH_USER_ALREADY_EXISTS,
		Message:  "User already exists",
	}.WithDetail("email", email)
}

func ErrInvalidRefreshToken() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_INVALID_REFRESH_TOKEN,
		Message:  "Invalid refresh token",
	}
}

func ErrOAuthFailed(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_OAUTH_FAILED,
		Message:  fmt.Sprintf("OAuth authentication failed with %s", provider),
	}
}

// Hub Errors
func ErrHubNotFound(hubID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_HUB_NOT_FOUND,
		Message:  "Hub not found",
	}.WithDetail("hub_id", hubID)
}

func ErrHubArchived(hubID string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_HUB_ARCHIVED,
		Message:  "Hub is archived",
	}.WithDetail("hub_id", hubID)
}

func ErrHubSlugTaken(slug string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_HUB_SLUG_TAKEN,
		Message:  "Hub slug already taken",
	}.WithDetail("slug", slug)
}

func ErrNotHubMember(hubID string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_HUB_NOT_MEMBER,
		Message:  "Not a member of this hub",
	}.WithDetail("hub_id", hubID)
}

func ErrAlreadyHubMember(hubID string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_HUB_ALREADY_MEMBER,
		Message:  "Already a member of this hub",
	}.WithDetail("hub_id", hubID)
}

// Message Errors
func ErrMessageNotFound(messageID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_MESSAGE_NOT_FOUND,
		Message:  "Message not found",
	}.WithDetail("message_id", messageID)
}

func ErrInvalidMessage(reason string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_MESSAGE_INVALID,
		Message:  reason,
	}
}

func ErrInvalidPollOption(option string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_POLL_INVALID_OPTION,
		Message:  "Invalid poll option",
	}.WithDetail("option", option)
}

// Stream Errors
func ErrStreamNotActive(hubID string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_STREAM_NOT_ACTIVE,
		Message:  "No livestream is active for this hub",
	}.WithDetail("hub_id", hubID)
}

func ErrStreamAlreadyActive(hubID string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_STREAM_ALREADY_ACTIVE,
		Message:  "A livestream is already active for this hub",
	}.WithDetail("hub_id", hubID)
}

func ErrRecordingFailed(hubID string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_RECORDING_FAILED,
		Message:  "Recording operation failed",
	}.WithDetail("hub_id", hubID)
}

// Analytics and Search Errors
func ErrAnalyticsFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_ANALYTICS_FAILED,
		Message:  "Failed to compute analytics report",
	}
}

func ErrSearchFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_SEARCH_FAILED,
		Message:  "Semantic search failed",
	}
}

// Integration Errors
func ErrLiveKitFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_LIVEKIT_FAILED,
		Message:  fmt.Sprintf("LiveKit operation failed: %s", operation),
	}
}

func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_STORAGE_FAILED,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}

func ErrCacheFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_CACHE_FAILED,
		Message:  fmt.Sprintf("Cache operation failed: %s", operation),
	}
}

func ErrExternalAPIFailed(service string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_EXTERNAL_API_FAILED,
		Message:  fmt.Sprintf("External API call failed: %s", service),
	}
}

// Database Errors
func ErrDBConnectionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_CONNECTION_FAILED,
		Message:  "Database connection failed",
	}
}

func ErrDBQueryFailed(query string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_QUERY_FAILED,
		Message:  "Database query failed",
	}.WithDetail("query", query)
}

func ErrDBTransactionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_TRANSACTION_FAILED,
		Message:  "Database transaction failed",
	}
}

// Custom Errors
func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

// HTTPStatusOK represents a successful HTTP response
func HTTPStatusOK(message string) AppError {
	return AppError{
		HTTPCode: http.StatusOK,
		Code:     ErrorCode_HTTP_OK,
		Message:  message,
	}
}
