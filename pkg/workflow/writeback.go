package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supportops/im-notices/pkg/notice"
)

// updateTicket writes the status-page link back to the ticket when this run
// created the incident. The ticket is the system of record for a sent notice,
// so a write failure is fatal.
func (w *Workflow) updateTicket(ctx context.Context, run *Run) error {
	if !run.Created || run.PageLink == "" {
		return nil
	}

	fields := map[string]interface{}{
		run.Project.Fields.ExternalLink: run.PageLink,
	}
	if err := w.deps.Jira.UpdateFields(ctx, run.ID, fields); err != nil {
		return TicketUpdateFailedErr{Err: err}
	}
	w.deps.Reporter.OK("JIRA", `"External Notice Link" added.`)
	return nil
}

// addComment appends a transcript of the sent notice to the ticket, wrapped
// as preformatted text, annotated with the ticket's reason field if present.
func (w *Workflow) addComment(ctx context.Context, run *Run) error {
	header := "Notices sent."
	if reason := run.Snapshot.StringField(run.Project.Fields.Reason); reason != "" {
		header = fmt.Sprintf("Notices sent (%s).", reason)
	}
	comment := header + "\n{noformat}\n" + run.Notice.Text + "\n{noformat}"

	if err := w.deps.Jira.AddComment(ctx, run.ID, comment); err != nil {
		return CommentFailedErr{Err: err}
	}
	w.deps.Reporter.OK("JIRA", "Comment added with notice details.")
	return nil
}

// archiveRecord is the audit log written for every completed run. It is built
// from a copy of the notice; the notice itself stays immutable after render.
type archiveRecord struct {
	To       string         `json:"to"`
	From     string         `json:"from"`
	Subject  string         `json:"subject"`
	Text     string         `json:"txt"`
	HTML     string         `json:"html"`
	Details  notice.Details `json:"details"`
	Datetime string         `json:"datetime"`
	Errors   []ServiceError `json:"errors"`
}

// archiveLog uploads the audit record. An upload failure is reported as the
// terminal error of an otherwise-completed run; the record is still written
// to local disk and nothing already sent is unwound.
func (w *Workflow) archiveLog(ctx context.Context, run *Run) error {
	record := archiveRecord{
		To:       run.Notice.To,
		From:     run.Notice.From,
		Subject:  run.Notice.Subject,
		Text:     run.Notice.Text,
		HTML:     run.Notice.HTML,
		Details:  run.Derived.Details,
		Datetime: w.deps.Clock.Now().Format("2006-01-02T15:04:05Z07:00"),
		Errors:   run.Errors,
	}

	content, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return ArchiveFailedErr{Err: fmt.Errorf("could not encode the audit record: %w", err)}
	}

	location, err := w.deps.Archive.Put(ctx, content)
	if err != nil {
		if location != "" {
			w.deps.Reporter.Warn("Archive", "local file saved at %s", location)
		}
		return ArchiveFailedErr{Err: err}
	}
	w.deps.Reporter.OK("Archive", "Log uploaded to %s", location)
	return nil
}
