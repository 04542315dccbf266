package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error for the boundary layer
type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindConflict        Kind = "conflict"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindInvalidState    Kind = "invalid_state"
	KindNotFound        Kind = "not_found"
)

// Error is a domain error carrying its kind.
// A kind sentinel (empty Message) matches every error of that kind under errors.Is.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is reports whether target is this error or the sentinel of its kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == e {
		return true
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Kind sentinels
var (
	ErrInvalidInput    = &Error{Kind: KindInvalidInput}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrInvalidState    = &Error{Kind: KindInvalidState}
	ErrNotFound        = &Error{Kind: KindNotFound}
)

// Identity errors
var (
	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Message: "invalid handle or credential"}
	ErrAccountDisabled    = &Error{Kind: KindForbidden, Message: "account is disabled"}
	ErrNotInitialized     = &Error{Kind: KindInvalidState, Message: "account is not initialized"}
	ErrAlreadyInitialized = &Error{Kind: KindConflict, Message: "account is already initialized"}
	ErrHandleTaken        = &Error{Kind: KindConflict, Message: "handle is already registered"}
	ErrSessionRevoked     = &Error{Kind: KindUnauthenticated, Message: "session revoked"}
	ErrSessionInvalid     = &Error{Kind: KindUnauthenticated, Message: "invalid session token"}
	ErrSessionExpired     = &Error{Kind: KindUnauthenticated, Message: "session expired"}
	ErrAccountNotFound    = &Error{Kind: KindNotFound, Message: "account not found"}
	ErrAccountGone        = &Error{Kind: KindUnauthenticated, Message: "account no longer exists"}
	ErrInvalidHandle      = &Error{Kind: KindInvalidInput, Message: "handle must be 1 to 20 characters"}
	ErrEmptyCredential    = &Error{Kind: KindInvalidInput, Message: "credential must not be empty"}
)

// Workflow errors
var (
	ErrClubNotFound           = &Error{Kind: KindNotFound, Message: "club not found"}
	ErrMemberNotFound         = &Error{Kind: KindNotFound, Message: "club member not found"}
	ErrAlreadyMember          = &Error{Kind: KindConflict, Message: "account is already a club member"}
	ErrRecruitmentNotFound    = &Error{Kind: KindNotFound, Message: "recruitment not found"}
	ErrApplicationNotFound    = &Error{Kind: KindNotFound, Message: "application not found"}
	ErrInterviewNotFound      = &Error{Kind: KindNotFound, Message: "interview not found"}
	ErrDuplicateApplication   = &Error{Kind: KindConflict, Message: "an application for this recruitment already exists"}
	ErrDuplicateInterview     = &Error{Kind: KindConflict, Message: "an interview for this application already exists"}
	ErrRecruitmentExpired     = &Error{Kind: KindInvalidState, Message: "recruitment expired, cannot publish"}
	ErrOutsideWindow          = &Error{Kind: KindInvalidState, Message: "outside the application window"}
	ErrRoleNotFound           = &Error{Kind: KindNotFound, Message: "role not found"}
	ErrPermissionNotFound     = &Error{Kind: KindNotFound, Message: "permission not found"}
	ErrSchoolNotFound         = &Error{Kind: KindNotFound, Message: "school not found"}
	ErrConcurrentModification = &Error{Kind: KindConflict, Message: "record was modified concurrently"}
)

// InvalidInputf builds an InvalidInput error
func InvalidInputf(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// InvalidStatef builds an InvalidState error
func InvalidStatef(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// Forbiddenf builds a Forbidden error
func Forbiddenf(format string, args ...any) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a domain error, or "" for anything else
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
