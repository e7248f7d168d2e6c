package table

import (
	"errors"
	"fmt"
)

// ContractCode categorizes contract violations.
type ContractCode string

const (
	// ErrCodeUnknownEntity indicates a lookup of a name that does not exist
	// (or exists with a different kind).
	ErrCodeUnknownEntity ContractCode = "UNKNOWN_ENTITY"

	// ErrCodeDuplicateName indicates a card/location/player name collision.
	ErrCodeDuplicateName ContractCode = "DUPLICATE_NAME"

	// ErrCodeMalformedSelector indicates a zero or otherwise unusable selector.
	ErrCodeMalformedSelector ContractCode = "MALFORMED_SELECTOR"

	// ErrCodeIllegalReorder indicates a move that would reorder a location
	// in place other than through an edge (0 / -1) move.
	ErrCodeIllegalReorder ContractCode = "ILLEGAL_REORDER"

	// ErrCodeIndexOutOfRange indicates a swap position outside a location.
	ErrCodeIndexOutOfRange ContractCode = "INDEX_OUT_OF_RANGE"

	// ErrCodeDuplicatePredicate indicates a predicate registered twice.
	ErrCodeDuplicatePredicate ContractCode = "DUPLICATE_PREDICATE"

	// ErrCodeUnknownPredicate indicates a request naming an unregistered predicate.
	ErrCodeUnknownPredicate ContractCode = "UNKNOWN_PREDICATE"

	// ErrCodeInvalidAnswer indicates an answer applied without passing validation.
	ErrCodeInvalidAnswer ContractCode = "INVALID_ANSWER"

	// ErrCodeUnknownMember indicates a chain walk from a non-member.
	ErrCodeUnknownMember ContractCode = "UNKNOWN_MEMBER"

	// ErrCodeTypeMismatch indicates a named value read as a type it does
	// not hold.
	ErrCodeTypeMismatch ContractCode = "TYPE_MISMATCH"

	// ErrCodeBadRequest indicates a pick request that can never be answered
	// (empty requester, inverted arity bounds).
	ErrCodeBadRequest ContractCode = "BAD_REQUEST"
)

// ContractError describes a broken precondition in rule or engine code.
//
// Contract errors are raised with panic. They are not recoverable player
// mistakes: an invalid player answer simply leaves a request pending.
type ContractError struct {
	// Code identifies the violation category.
	Code ContractCode

	// Message is a human-readable description.
	Message string

	// Name is the offending entity, member or predicate name, if any.
	Name string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (name=%s)", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Violate panics with a ContractError.
func Violate(code ContractCode, name, format string, args ...any) {
	panic(&ContractError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Name:    name,
	})
}

// AsContractError extracts a ContractError from a recovered panic value
// or a (possibly wrapped) error.
func AsContractError(v any) (*ContractError, bool) {
	switch val := v.(type) {
	case *ContractError:
		return val, true
	case error:
		var ce *ContractError
		if errors.As(val, &ce) {
			return ce, true
		}
	}
	return nil, false
}

// IsContractViolation reports whether v (a recovered panic value or an
// error) is a contract violation.
func IsContractViolation(v any) bool {
	_, ok := AsContractError(v)
	return ok
}
