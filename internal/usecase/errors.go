package usecase

import (
	"context"
	"errors"

	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/domain/repository"
	"cabinet-portal/pkg/validator"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrSlotUnavailable        = errors.New("slot is no longer available")
	ErrRequestInFlight        = errors.New("a request for this rendez-vous is already in progress")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrSessionExpired         = errors.New("session expired or revoked")
	ErrForbiddenAction        = errors.New("you are not allowed to perform this action")
	ErrInvalidStateTransition = entity.ErrInvalidStateTransition
	ErrCancellationTooLate    = errors.New("a validated rendez-vous can only be cancelled before it starts")
	ErrBackendUnavailable     = errors.New("backend unavailable")
	ErrRequestAbandoned       = errors.New("request abandoned by the client")
	ErrConfirmationRequired   = errors.New("deletion must be confirmed")
	ErrEmailAlreadyExists     = errors.New("email already exists")
	ErrRendezVousNotFound     = errors.New("rendez-vous not found")
	ErrMedecinNotFound        = errors.New("medecin not found")
	ErrPatientNotFound        = errors.New("patient not found")
	ErrAuditLogNotFound       = errors.New("audit log not found")
	ErrTemplateNotFound       = errors.New("prescription template not found")
	ErrSlotBlockNotFound      = errors.New("slot block not found")
	ErrSlotAlreadyBlocked     = errors.New("slot overlaps an existing block")
)

// ErrorKind groups errors by how the caller should react to them.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindConflict
	KindAuth
	KindForbidden
	KindNotFound
	KindState
	KindConfirmation
	KindNetwork
	KindTimeout
	KindAbandoned
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindState:
		return "state"
	case KindConfirmation:
		return "confirmation"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// Classify maps any error returned by a usecase to its kind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrRequestAbandoned), errors.Is(err, context.Canceled):
		return KindAbandoned
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrInvalidInput), errors.Is(err, repository.ErrRejected), validator.IsValidationError(err):
		return KindValidation
	case errors.Is(err, ErrSlotUnavailable), errors.Is(err, ErrRequestInFlight),
		errors.Is(err, ErrEmailAlreadyExists), errors.Is(err, ErrSlotAlreadyBlocked),
		errors.Is(err, repository.ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrSessionExpired):
		return KindAuth
	case errors.Is(err, ErrForbiddenAction), errors.Is(err, entity.ErrActionNotPermitted),
		errors.Is(err, repository.ErrUnauthorized):
		return KindForbidden
	case errors.Is(err, ErrRendezVousNotFound), errors.Is(err, ErrMedecinNotFound),
		errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrAuditLogNotFound),
		errors.Is(err, ErrTemplateNotFound), errors.Is(err, ErrSlotBlockNotFound),
		errors.Is(err, repository.ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidStateTransition), errors.Is(err, ErrCancellationTooLate):
		return KindState
	case errors.Is(err, ErrConfirmationRequired):
		return KindConfirmation
	case errors.Is(err, ErrBackendUnavailable), errors.Is(err, repository.ErrUnavailable),
		errors.Is(err, repository.ErrUnexpectedStatus):
		return KindNetwork
	}
	return KindUnknown
}

// backendFailure turns a backend error into the usecase taxonomy. A request whose client went
// away gets ErrRequestAbandoned so its response is dropped.
func backendFailure(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrRequestAbandoned
	}
	if errors.Is(err, repository.ErrUnavailable) && !errors.Is(err, ErrBackendUnavailable) {
		return errors.Join(ErrBackendUnavailable, err)
	}
	return err
}
