package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
	ErrCodeInvalidConfig      ErrorCode = "COMMON_017"
	ErrCodeMessageQueue       ErrorCode = "COMMON_018"
	ErrCodeStorage            ErrorCode = "COMMON_019"
)

// Aliases used across layers.
const (
	CodeUnknown      ErrorCode = ""
	CodeOK           ErrorCode = "OK"
	CodeInternal               = ErrCodeInternal
	CodeInvalidParam           = ErrCodeBadRequest
	CodeUnauthorized           = ErrCodeUnauthorized
	CodeForbidden              = ErrCodeForbidden
	CodeNotFound               = ErrCodeNotFound
	CodeConflict               = ErrCodeConflict
	CodeRateLimit              = ErrCodeTooManyRequests
)

// Experiment Module Error Codes
const (
	ErrCodeTestNotFound        ErrorCode = "EXP_001"
	ErrCodeVariantNotFound     ErrorCode = "EXP_002"
	ErrCodeCatalogInvalid      ErrorCode = "EXP_003"
	ErrCodeAssignmentStorage   ErrorCode = "EXP_004"
	ErrCodeAssignmentMalformed ErrorCode = "EXP_005"
	ErrCodePageViewNotFound    ErrorCode = "EXP_006"
	ErrCodeSurfaceRender       ErrorCode = "EXP_007"
)

// Lead Module Error Codes
const (
	ErrCodeLeadInvalid          ErrorCode = "LEAD_001"
	ErrCodeLeadDeliveryFailed   ErrorCode = "LEAD_002"
	ErrCodeConversationNotFound ErrorCode = "LEAD_003"
	ErrCodeConversationState    ErrorCode = "LEAD_004"
	ErrCodeAnswerInvalid        ErrorCode = "LEAD_005"
	ErrCodeLeadNotFound         ErrorCode = "LEAD_006"
)

// ROI Module Error Codes
const (
	ErrCodeROIInputInvalid ErrorCode = "ROI_001"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeFeatureDisabled:    http.StatusForbidden,
	ErrCodeNotImplemented:     http.StatusNotImplemented,
	ErrCodeInvalidConfig:      http.StatusInternalServerError,
	ErrCodeMessageQueue:       http.StatusInternalServerError,
	ErrCodeStorage:            http.StatusInternalServerError,

	ErrCodeTestNotFound:        http.StatusNotFound,
	ErrCodeVariantNotFound:     http.StatusBadRequest,
	ErrCodeCatalogInvalid:      http.StatusInternalServerError,
	ErrCodeAssignmentStorage:   http.StatusInternalServerError,
	ErrCodeAssignmentMalformed: http.StatusInternalServerError,
	ErrCodePageViewNotFound:    http.StatusNotFound,
	ErrCodeSurfaceRender:       http.StatusInternalServerError,

	ErrCodeLeadInvalid:          http.StatusUnprocessableEntity,
	ErrCodeLeadDeliveryFailed:   http.StatusBadGateway,
	ErrCodeConversationNotFound: http.StatusNotFound,
	ErrCodeConversationState:    http.StatusConflict,
	ErrCodeAnswerInvalid:        http.StatusBadRequest,
	ErrCodeLeadNotFound:         http.StatusNotFound,

	ErrCodeROIInputInvalid: http.StatusUnprocessableEntity,
}

// ErrorCodeMessage holds the default message for each ErrorCode.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeFeatureDisabled:    "feature disabled",
	ErrCodeNotImplemented:     "not implemented",
	ErrCodeInvalidConfig:      "invalid configuration",
	ErrCodeMessageQueue:       "message queue error",
	ErrCodeStorage:            "object storage error",

	ErrCodeTestNotFound:        "experiment not found",
	ErrCodeVariantNotFound:     "variant not found",
	ErrCodeCatalogInvalid:      "invalid experiment catalog",
	ErrCodeAssignmentStorage:   "assignment storage failure",
	ErrCodeAssignmentMalformed: "malformed assignment record",
	ErrCodePageViewNotFound:    "page view not found",
	ErrCodeSurfaceRender:       "page render failed",

	ErrCodeLeadInvalid:          "invalid lead",
	ErrCodeLeadDeliveryFailed:   "lead delivery failed",
	ErrCodeConversationNotFound: "conversation not found",
	ErrCodeConversationState:    "conversation is not expecting this input",
	ErrCodeAnswerInvalid:        "invalid answer",
	ErrCodeLeadNotFound:         "lead not found",

	ErrCodeROIInputInvalid: "invalid calculator input",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
