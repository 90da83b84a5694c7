package workflow

import (
	"github.com/supportops/im-notices/pkg/jira"
	"github.com/supportops/im-notices/pkg/mailer"
	"github.com/supportops/im-notices/pkg/notice"
	"github.com/supportops/im-notices/pkg/project"
)

// PageState tracks what the run will do to the status page. Transitions only
// move forward: unset -> create-pending | update-pending | skip, and skip is
// terminal for the run.
type PageState int

const (
	PageUnset PageState = iota
	PageCreatePending
	PageUpdatePending
	PageSkip
)

func (s PageState) String() string {
	switch s {
	case PageCreatePending:
		return "create-pending"
	case PageUpdatePending:
		return "update-pending"
	case PageSkip:
		return "skip"
	default:
		return "unset"
	}
}

// ServiceError is one recorded soft failure, surfaced in the audit record.
type ServiceError struct {
	Service string `json:"service"`
	Message string `json:"message"`
}

// Run is the mutable workflow context. It is owned exclusively by the
// pipeline for the duration of one invocation and never persisted.
type Run struct {
	// ID is the upper-cased ticket identifier, immutable once set.
	ID string

	// Project is the ticket's project configuration, read-only after fetch.
	Project *project.Project

	// Snapshot is the point-in-time ticket copy fetched at pipeline start.
	Snapshot *jira.IssueSnapshot

	// Derived is the presentation data, computed once and never re-derived.
	Derived *notice.DerivedFields

	// Notice is the outbound message. It is immutable after the render step:
	// what the operator previewed is exactly what is sent and archived.
	Notice *mailer.Message

	// Resolved is true when the ticket status maps to the resolved marker.
	Resolved bool

	// PageState and the two identifiers below are owned by the
	// reconciliation steps.
	PageState PageState
	// PageIncidentID is the external incident id, extracted from the
	// ticket's link or returned by a create.
	PageIncidentID string
	// PageLink is the public incident url written back to the ticket.
	PageLink string
	// Created is true when this run created the status-page incident.
	Created bool

	// ComponentIDs is populated by validation iff it succeeded and
	// status-page interaction is enabled for the project.
	ComponentIDs []string

	// Errors accumulates soft failures for the audit record.
	Errors []ServiceError

	// suppressPageWrites is set when the component catalog could not be
	// fetched; every later status-page write is skipped for the run.
	suppressPageWrites bool
}

// setPageState enforces the forward-only state machine. Once skip is reached
// it sticks.
func (r *Run) setPageState(next PageState) {
	if r.PageState == PageSkip {
		return
	}
	r.PageState = next
}
