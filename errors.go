package crate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeEntryNotFound indicates an id was looked up that has no entry
	CodeEntryNotFound = "ENTRY_NOT_FOUND"

	// CodeDuplicateEntry indicates an id already carries a resolver
	CodeDuplicateEntry = "DUPLICATE_ENTRY"

	// CodeResolverNotFound indicates an entry was created by Extend but never given a resolver
	CodeResolverNotFound = "RESOLVER_NOT_FOUND"

	// CodeInvalidInstance indicates a resolver or extender returned a value of the wrong type
	CodeInvalidInstance = "INVALID_INSTANCE"

	// CodeInjection indicates a parameter or argument could not be wired
	CodeInjection = "INJECTION_ERROR"

	// CodeCircularDependency indicates a circular dependency was detected
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"

	// CodeServiceError indicates a resolver, extender or constructor returned an error
	CodeServiceError = "SERVICE_ERROR"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// Sentinels match any error with the same code under errors.Is.

// ErrEntryNotFound matches errors for unregistered ids.
var ErrEntryNotFound = errs.NewError(CodeEntryNotFound, "entry not found", nil)

// ErrDuplicateEntry matches errors for ids registered twice.
var ErrDuplicateEntry = errs.NewError(CodeDuplicateEntry, "duplicate entry", nil)

// ErrResolverNotFound matches errors for entries without a resolver.
var ErrResolverNotFound = errs.NewError(CodeResolverNotFound, "resolver not found", nil)

// ErrInvalidInstance matches errors for values of the wrong type.
var ErrInvalidInstance = errs.NewError(CodeInvalidInstance, "invalid instance", nil)

// ErrInjection matches autowiring errors.
var ErrInjection = errs.NewError(CodeInjection, "injection error", nil)

// ErrCircularDependency matches circular dependency errors.
var ErrCircularDependency = errs.NewError(CodeCircularDependency, "circular dependency", nil)

// ErrService matches errors returned by user resolvers, extenders and constructors.
var ErrService = errs.NewError(CodeServiceError, "service error", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// errEntryNotFound creates an error for an unregistered id
func errEntryNotFound(id ID) *errs.Error {
	return errs.NewError(
		CodeEntryNotFound,
		fmt.Sprintf("%s is not registered", id),
		nil,
	).WithContext("id", id).(*errs.Error)
}

// errDuplicateEntry creates an error for re-registering an id
func errDuplicateEntry(id ID) *errs.Error {
	return errs.NewError(
		CodeDuplicateEntry,
		fmt.Sprintf("cannot register %s: entry already exists", id),
		nil,
	).WithContext("id", id).(*errs.Error)
}

// errDuplicateClass creates an error for defining a constructor twice
func errDuplicateClass(id ID) *errs.Error {
	return errs.NewError(
		CodeDuplicateEntry,
		fmt.Sprintf("cannot define %s: constructor already exists", id),
		nil,
	).WithContext("class", id).(*errs.Error)
}

// errResolverNotFound creates an error for an extend-only entry
func errResolverNotFound(id ID) *errs.Error {
	return errs.NewError(
		CodeResolverNotFound,
		fmt.Sprintf("%s has no resolver; it was only extended", id),
		nil,
	).WithContext("id", id).(*errs.Error)
}

// errInvalidInstance creates an error for a value not assignable to the entry type
func errInvalidInstance(id ID, stage string, actual any) *errs.Error {
	return errs.NewError(
		CodeInvalidInstance,
		fmt.Sprintf("%s %s returned %T, expected an instance of %s", targetName(id), stage, actual, targetName(id)),
		nil,
	).WithContext("id", id).
		WithContext("stage", stage).
		WithContext("actual_type", fmt.Sprintf("%T", actual)).(*errs.Error)
}

// errService wraps an error returned by user code
func errService(id ID, operation string, cause error) *errs.Error {
	return errs.NewError(
		CodeServiceError,
		fmt.Sprintf("%s failed during %s", targetName(id), operation),
		cause,
	).WithContext("id", id).
		WithContext("operation", operation).(*errs.Error)
}

// errInjection creates an autowiring error
func errInjection(target ID, format string, args ...any) *errs.Error {
	return errs.NewError(
		CodeInjection,
		fmt.Sprintf("[%s] %s", targetName(target), fmt.Sprintf(format, args...)),
		nil,
	).WithContext("target", target).(*errs.Error)
}

// errCircularDependency creates an error carrying the full dependency chain
func errCircularDependency(chain []ID) *errs.Error {
	path := joinIDs(chain, " -> ")
	return errs.NewError(
		CodeCircularDependency,
		"circular dependency detected: "+path,
		nil,
	).WithContext("chain", chain).
		WithContext("id", chain[len(chain)-1]).(*errs.Error)
}

// withContext attaches a diagnostic key/value to err.
func withContext(err *errs.Error, key string, value any) *errs.Error {
	return err.WithContext(key, value).(*errs.Error)
}

func targetName(id ID) string {
	if id == "" {
		return "closure"
	}
	return string(id)
}

func joinIDs(ids []ID, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, sep)
}

func sortedIDs(m map[ID]any) []ID {
	ids := make([]ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
