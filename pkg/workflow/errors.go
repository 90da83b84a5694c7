package workflow

import (
	"errors"
	"fmt"
)

// Fatal error kinds. Each aborts the pipeline immediately and is surfaced
// verbatim to the operator; none is retried automatically. Soft failures are
// not errors in this sense, they are recorded on the run instead.

// UnsupportedProjectErr means no project configuration exists for the ticket's id prefix
type UnsupportedProjectErr struct {
	Project string
}

func (e UnsupportedProjectErr) Error() string {
	return fmt.Sprintf("unsupported Jira project: %s", e.Project)
}

// Is ignores the fields, thus making errors.Is work (as by default it compares the internal objects)
func (e UnsupportedProjectErr) Is(target error) bool {
	_, ok := target.(UnsupportedProjectErr)
	return ok
}

// MissingEscalationLevelErr means the ticket has no escalation level set
type MissingEscalationLevelErr struct {
	ID string
}

func (e MissingEscalationLevelErr) Error() string {
	return fmt.Sprintf("no escalation level defined for %s", e.ID)
}

// Is ignores the fields, thus making errors.Is work
func (e MissingEscalationLevelErr) Is(target error) bool {
	_, ok := target.(MissingEscalationLevelErr)
	return ok
}

// ManualHandlingRequiredErr means the issue category must never be notified automatically
type ManualHandlingRequiredErr struct {
	IssueType string
}

func (e ManualHandlingRequiredErr) Error() string {
	return fmt.Sprintf("manual notifications required for %s incidents, aborting", e.IssueType)
}

// Is ignores the fields, thus making errors.Is work
func (e ManualHandlingRequiredErr) Is(target error) bool {
	_, ok := target.(ManualHandlingRequiredErr)
	return ok
}

// IncompleteTicketErr means a required narrative field is empty
type IncompleteTicketErr struct {
	Field string
}

func (e IncompleteTicketErr) Error() string {
	return fmt.Sprintf("ticket field %q must not be empty", e.Field)
}

// Is ignores the fields, thus making errors.Is work
func (e IncompleteTicketErr) Is(target error) bool {
	_, ok := target.(IncompleteTicketErr)
	return ok
}

// UnknownServiceErr means an affected service has no status-page component
type UnknownServiceErr struct {
	Service string
}

func (e UnknownServiceErr) Error() string {
	return fmt.Sprintf("service %q not found on statuspage.io", e.Service)
}

// Is ignores the fields, thus making errors.Is work
func (e UnknownServiceErr) Is(target error) bool {
	_, ok := target.(UnknownServiceErr)
	return ok
}

// NotSentErr means the operator declined the confirmation prompt
type NotSentErr struct{}

func (e NotSentErr) Error() string {
	return `notification not sent, enter "Y" to send`
}

// StalePreviewErr means the ticket changed between preview and confirmation
type StalePreviewErr struct {
	ID string
}

func (e StalePreviewErr) Error() string {
	return fmt.Sprintf("%s has been updated since the preview was rendered, please re-run for the latest data", e.ID)
}

// Is ignores the fields, thus making errors.Is work
func (e StalePreviewErr) Is(target error) bool {
	_, ok := target.(StalePreviewErr)
	return ok
}

// DeliveryFailedErr wraps a mail delivery failure
type DeliveryFailedErr struct {
	Err error
}

func (e DeliveryFailedErr) Error() string {
	return fmt.Errorf("could not send email: %w", e.Err).Error()
}

// Is ignores the internal error, thus making errors.Is work
func (e DeliveryFailedErr) Is(target error) bool {
	_, ok := target.(DeliveryFailedErr)
	return ok
}

// Unwrap exposes the inner error for errors.As chains
func (e DeliveryFailedErr) Unwrap() error { return e.Err }

// TicketUpdateFailedErr wraps a failure to write fields back to the ticket
type TicketUpdateFailedErr struct {
	Err error
}

func (e TicketUpdateFailedErr) Error() string {
	return fmt.Errorf("ticket not updated: %w", e.Err).Error()
}

// Is ignores the internal error, thus making errors.Is work
func (e TicketUpdateFailedErr) Is(target error) bool {
	_, ok := target.(TicketUpdateFailedErr)
	return ok
}

// Unwrap exposes the inner error for errors.As chains
func (e TicketUpdateFailedErr) Unwrap() error { return e.Err }

// CommentFailedErr wraps a failure to append the transcript comment
type CommentFailedErr struct {
	Err error
}

func (e CommentFailedErr) Error() string {
	return fmt.Errorf("unable to add comment to ticket: %w", e.Err).Error()
}

// Is ignores the internal error, thus making errors.Is work
func (e CommentFailedErr) Is(target error) bool {
	_, ok := target.(CommentFailedErr)
	return ok
}

// Unwrap exposes the inner error for errors.As chains
func (e CommentFailedErr) Unwrap() error { return e.Err }

// ArchiveFailedErr wraps a failure to upload the audit record
type ArchiveFailedErr struct {
	Err error
}

func (e ArchiveFailedErr) Error() string {
	return fmt.Errorf("unable to archive the audit log: %w", e.Err).Error()
}

// Is ignores the internal error, thus making errors.Is work
func (e ArchiveFailedErr) Is(target error) bool {
	_, ok := target.(ArchiveFailedErr)
	return ok
}

// Unwrap exposes the inner error for errors.As chains
func (e ArchiveFailedErr) Unwrap() error { return e.Err }

// ErrorKind returns a stable label for the fatal error, used as a metrics label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, UnsupportedProjectErr{}):
		return "unsupported_project"
	case errors.Is(err, MissingEscalationLevelErr{}):
		return "missing_escalation_level"
	case errors.Is(err, ManualHandlingRequiredErr{}):
		return "manual_handling_required"
	case errors.Is(err, IncompleteTicketErr{}):
		return "incomplete_ticket"
	case errors.Is(err, UnknownServiceErr{}):
		return "unknown_service"
	case errors.Is(err, NotSentErr{}):
		return "not_sent"
	case errors.Is(err, StalePreviewErr{}):
		return "stale_preview"
	case errors.Is(err, DeliveryFailedErr{}):
		return "delivery_failed"
	case errors.Is(err, TicketUpdateFailedErr{}):
		return "ticket_update_failed"
	case errors.Is(err, CommentFailedErr{}):
		return "comment_failed"
	case errors.Is(err, ArchiveFailedErr{}):
		return "archive_failed"
	default:
		return "other"
	}
}
