package planir

import (
	"errors"
	"fmt"
)

// StructuralError reports an illegal plan mutation: an operator applied
// in an order the plan cannot express, or an alias that would bind twice.
//
// Structural errors are authoring mistakes, not runtime conditions. The
// builder makes them sticky - after the first one, every further step
// returns the same error - so the author sees the original failure, not
// a cascade.
type StructuralError struct {
	// Code identifies the error category.
	Code StructuralErrorCode

	// Message is a human-readable description.
	Message string

	// Op names the builder operation that failed.
	Op string

	// Alias is set for alias conflicts.
	Alias string

	// StageIndex is the position the rejected stage would have had.
	StageIndex int
}

// StructuralErrorCode categorizes structural errors.
type StructuralErrorCode string

const (
	// ErrCodeNoSource indicates a stage that needs elements was appended
	// before any pattern, sub-query, or source stage existed.
	ErrCodeNoSource StructuralErrorCode = "NO_SOURCE"

	// ErrCodeDoubleCollect indicates a collect stage directly after
	// another collect, with no intervening stage.
	ErrCodeDoubleCollect StructuralErrorCode = "DOUBLE_COLLECT"

	// ErrCodeDuplicateAlias indicates an alias already bound to a pattern
	// or sub-query in this query definition.
	ErrCodeDuplicateAlias StructuralErrorCode = "DUPLICATE_ALIAS"

	// ErrCodeMissingFactType indicates a pattern registered without a
	// fact type.
	ErrCodeMissingFactType StructuralErrorCode = "MISSING_FACT_TYPE"
)

// Error implements the error interface.
func (e *StructuralError) Error() string {
	if e.Alias != "" {
		return fmt.Sprintf("%s: %s: %s (alias=%q, stage=%d)", e.Code, e.Op, e.Message, e.Alias, e.StageIndex)
	}
	return fmt.Sprintf("%s: %s: %s (stage=%d)", e.Code, e.Op, e.Message, e.StageIndex)
}

// IsOrderingError returns true for misordered chains (stage appended
// before a source, or collect after collect). Uses errors.As to handle
// wrapped errors.
func IsOrderingError(err error) bool {
	var se *StructuralError
	if errors.As(err, &se) {
		return se.Code == ErrCodeNoSource || se.Code == ErrCodeDoubleCollect
	}
	return false
}

// IsAliasError returns true for duplicate-alias rejections.
func IsAliasError(err error) bool {
	var se *StructuralError
	if errors.As(err, &se) {
		return se.Code == ErrCodeDuplicateAlias
	}
	return false
}
