package domain

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Error kinds. Typed errors below match these through errors.Is
var (
	ErrValidation    = errors.New("validation error")
	ErrCapacity      = errors.New("capacity error")
	ErrAuthorization = errors.New("authorization error")
	ErrStateConflict = errors.New("state conflict")
	ErrNotFound      = errors.New("not found")
)

// ValidationError bad input; nothing was mutated
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// CapacityError a block required by the request is full or outside the grid
type CapacityError struct {
	FullAt types.TimeString
}

func NewCapacityError(fullAt types.TimeString) *CapacityError {
	return &CapacityError{FullAt: fullAt}
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity error: slot full at %s", e.FullAt)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacity
}

// AuthorizationError the actor or patient may not perform the operation
type AuthorizationError struct {
	BlockType string
	Reason    string
}

func NewAuthorizationError(blockType, reason string) *AuthorizationError {
	return &AuthorizationError{BlockType: blockType, Reason: reason}
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("authorization error: %s: %s", e.BlockType, e.Reason)
}

func (e *AuthorizationError) Is(target error) bool {
	return target == ErrAuthorization
}

// StateConflictError the entity is not in a state that allows the transition
type StateConflictError struct {
	Status  string
	Message string
}

func NewStateConflictError(status, message string) *StateConflictError {
	return &StateConflictError{Status: status, Message: message}
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("state conflict: %s (status=%s)", e.Message, e.Status)
}

func (e *StateConflictError) Is(target error) bool {
	return target == ErrStateConflict
}

// NotFoundError unknown entity
type NotFoundError struct {
	Entity string
	Key    string
}

func NewNotFoundError(entity, key string) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyProcessed state conflict for appointments that left the expected status
func AlreadyProcessed(status AppointmentStatus) *StateConflictError {
	return NewStateConflictError(string(status), "already processed")
}
