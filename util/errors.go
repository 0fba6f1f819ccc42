/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package util contains the shared error type used across the database.

Error

Error models a database related error. Low level errors (I/O, codec
failures from a vault) are wrapped in an Error before they reach the
caller so that every exit point of the public API returns the same
error shape, discriminated by Kind.
*/
package util

import "fmt"

/*
Kind discriminates the class of a database Error.
*/
type Kind int

/*
Error kinds, one per layer of the pipeline that can reject a query or a
write.
*/
const (
	// ParseErrorKind is returned when query text is syntactically invalid.
	ParseErrorKind Kind = iota

	// PlanErrorKind is returned when a query is syntactically valid but
	// semantically invalid (unbound name, conflicting label, ...).
	PlanErrorKind

	// CompileErrorKind is returned when lowering a plan to a program
	// violates an internal invariant.
	CompileErrorKind

	// RuntimeErrorKind is returned by the virtual machine (type
	// mismatches, unknown parameters, writes in a read transaction, ...).
	RuntimeErrorKind

	// StoreErrorKind is returned by the store (I/O failure, corruption,
	// write conflicts, referential integrity violations).
	StoreErrorKind

	// VaultErrorKind is returned when a vault fails to authenticate or
	// decode a persisted record.
	VaultErrorKind

	// InternalErrorKind marks an unreachable invariant. Seeing this is
	// always a bug.
	InternalErrorKind
)

/*
String returns a human readable name for a Kind.
*/
func (k Kind) String() string {
	switch k {
	case ParseErrorKind:
		return "ParseError"
	case PlanErrorKind:
		return "PlanError"
	case CompileErrorKind:
		return "CompileError"
	case RuntimeErrorKind:
		return "RuntimeError"
	case StoreErrorKind:
		return "StoreError"
	case VaultErrorKind:
		return "VaultError"
	case InternalErrorKind:
		return "InternalError"
	}
	return "UnknownError"
}

/*
Error is the single error type returned at every exit point of the
public API (Query.Step, Statement.Execute, Txn.Commit, ...).
*/
type Error struct {
	Kind    Kind   // Discriminates the class of error
	Offset  int    // Byte offset into the source query (ParseError only, -1 otherwise)
	Message string // Human readable detail
	Wrapped error  // Underlying error, if any (e.g. a vault or I/O error)
}

/*
Error returns a human-readable string representation of this error.
*/
func (e *Error) Error() string {
	if e.Kind == ParseErrorKind && e.Offset >= 0 {
		return fmt.Sprintf("%v at offset %d: %s", e.Kind, e.Offset, e.Message)
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%v: %s (%v)", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

/*
Unwrap exposes the wrapped error, if any, for errors.Is/errors.As.
*/
func (e *Error) Unwrap() error {
	return e.Wrapped
}

/*
NewParseError creates a new ParseError with a source offset.
*/
func NewParseError(offset int, message string) *Error {
	return &Error{Kind: ParseErrorKind, Offset: offset, Message: message}
}

/*
NewPlanError creates a new PlanError.
*/
func NewPlanError(message string) *Error {
	return &Error{Kind: PlanErrorKind, Offset: -1, Message: message}
}

/*
NewCompileError creates a new CompileError.
*/
func NewCompileError(message string) *Error {
	return &Error{Kind: CompileErrorKind, Offset: -1, Message: message}
}

/*
NewRuntimeError creates a new RuntimeError.
*/
func NewRuntimeError(message string) *Error {
	return &Error{Kind: RuntimeErrorKind, Offset: -1, Message: message}
}

/*
NewStoreError creates a new StoreError, optionally wrapping a lower level
I/O error.
*/
func NewStoreError(message string, wrapped error) *Error {
	return &Error{Kind: StoreErrorKind, Offset: -1, Message: message, Wrapped: wrapped}
}

/*
NewVaultError creates a new VaultError wrapping the vault's own error.
*/
func NewVaultError(message string, wrapped error) *Error {
	return &Error{Kind: VaultErrorKind, Offset: -1, Message: message, Wrapped: wrapped}
}

/*
NewInternalError creates a new InternalError. Seeing this constructed
anywhere outside of an assertion is a bug.
*/
func NewInternalError(message string) *Error {
	return &Error{Kind: InternalErrorKind, Offset: -1, Message: message}
}
