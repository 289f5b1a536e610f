package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"
	ErrCodeInvalidTime      ErrorCode = "INVALID_TIME"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidCode      ErrorCode = "INVALID_PERMISSION_CODE"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"

	ErrCodeInsufficientQuantity   ErrorCode = "INSUFFICIENT_QUANTITY"
	ErrCodeInvalidQuantity        ErrorCode = "INVALID_QUANTITY"
	ErrCodeInvalidSerialNumber    ErrorCode = "INVALID_SERIAL_NUMBER"
	ErrCodeSerialNumberRequired   ErrorCode = "SERIAL_NUMBER_REQUIRED"
	ErrCodeSerialQuantityMismatch ErrorCode = "SERIAL_QUANTITY_MISMATCH"
	ErrCodeNotEnoughSerials       ErrorCode = "NOT_ENOUGH_SERIAL_NUMBERS"
	ErrCodeDeploymentTarget       ErrorCode = "INVALID_DEPLOYMENT_TARGET"
	ErrCodeSameRoom               ErrorCode = "ASSET_ALREADY_IN_ROOM"
	ErrCodeQuantityDecrease       ErrorCode = "QUANTITY_DECREASE_NOT_ALLOWED"

	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeBuildingNotFound    ErrorCode = "BUILDING_NOT_FOUND"
	ErrCodeFloorNotFound       ErrorCode = "FLOOR_NOT_FOUND"
	ErrCodeRoomNotFound        ErrorCode = "ROOM_NOT_FOUND"
	ErrCodeStorageItemNotFound ErrorCode = "STORAGE_ITEM_NOT_FOUND"
	ErrCodeAssetNotFound       ErrorCode = "ASSET_NOT_FOUND"
	ErrCodeTicketNotFound      ErrorCode = "TICKET_NOT_FOUND"
	ErrCodeScheduleNotFound    ErrorCode = "SCHEDULE_NOT_FOUND"

	ErrCodeScheduleConflict     ErrorCode = "SCHEDULE_CONFLICT"
	ErrCodeHasDeploymentHistory ErrorCode = "HAS_DEPLOYMENT_HISTORY"
	ErrCodeHasChildren          ErrorCode = "HAS_DEPENDENT_RECORDS"
	ErrCodeDuplicate            ErrorCode = "DUPLICATE_RECORD"
	ErrCodeConcurrentUpdate     ErrorCode = "CONCURRENT_UPDATE"

	ErrCodeUnauthorizedAccess      ErrorCode = "UNAUTHORIZED_ACCESS"
	ErrCodeInsufficientPermissions ErrorCode = "INSUFFICIENT_PERMISSIONS"
	ErrCodeInvalidCredentials      ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive            ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken            ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired            ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Code so copies of the package sentinels still compare equal.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Type == t.Type
}

// WithCause returns a copy carrying cause; sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithDetails returns a copy carrying details.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithMessage returns a copy with a more specific message.
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewExternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       "EXTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

var (
	ErrInsufficientQuantity   = NewValidationError("not enough quantity", ErrCodeInsufficientQuantity)
	ErrInvalidQuantity        = NewValidationError("quantity must be at least 1", ErrCodeInvalidQuantity)
	ErrInvalidSerialNumber    = NewValidationError("invalid serial number", ErrCodeInvalidSerialNumber)
	ErrSerialNumberRequired   = NewValidationError("serial number required", ErrCodeSerialNumberRequired)
	ErrSerialQuantityMismatch = NewValidationError("serial number quantity mismatch", ErrCodeSerialQuantityMismatch)
	ErrNotEnoughSerials       = NewValidationError("not enough serial numbers for quantity", ErrCodeNotEnoughSerials)
	ErrDeploymentTarget       = NewValidationError("exactly one of storage_item_id or asset_id is required", ErrCodeDeploymentTarget)
	ErrAssetAlreadyInRoom     = NewValidationError("asset is already located in the destination room", ErrCodeSameRoom)
	ErrQuantityDecrease       = NewValidationError("quantity can only be decreased through a deployment", ErrCodeQuantityDecrease)

	ErrUserNotFound        = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrBuildingNotFound    = NewNotFoundError("Building not found", ErrCodeBuildingNotFound)
	ErrFloorNotFound       = NewNotFoundError("Floor not found", ErrCodeFloorNotFound)
	ErrRoomNotFound        = NewNotFoundError("Room not found", ErrCodeRoomNotFound)
	ErrStorageItemNotFound = NewNotFoundError("Storage item not found", ErrCodeStorageItemNotFound)
	ErrAssetNotFound       = NewNotFoundError("Asset not found", ErrCodeAssetNotFound)
	ErrTicketNotFound      = NewNotFoundError("Ticket not found", ErrCodeTicketNotFound)
	ErrScheduleNotFound    = NewNotFoundError("Schedule not found", ErrCodeScheduleNotFound)

	ErrScheduleConflict     = NewConflictError("room is already booked for an overlapping time", ErrCodeScheduleConflict)
	ErrHasDeploymentHistory = NewConflictError("record has deployment history and cannot be deleted", ErrCodeHasDeploymentHistory)
	ErrHasChildren          = NewConflictError("record still has dependent records", ErrCodeHasChildren)
	ErrDuplicate            = NewConflictError("record already exists", ErrCodeDuplicate)
	ErrConcurrentUpdate     = NewConflictError("record was modified concurrently", ErrCodeConcurrentUpdate)

	ErrUnauthorizedAccess      = NewForbiddenError("unauthorized access to resource", ErrCodeUnauthorizedAccess)
	ErrInsufficientPermissions = NewForbiddenError("insufficient permissions", ErrCodeInsufficientPermissions)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
