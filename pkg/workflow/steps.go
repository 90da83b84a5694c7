package workflow

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/supportops/im-notices/pkg/mailer"
	"github.com/supportops/im-notices/pkg/metrics"
	"github.com/supportops/im-notices/pkg/notice"
	"github.com/supportops/im-notices/pkg/statuspage"
)

// fetchAndRender fetches the ticket, resolves the project configuration and
// recipient, and renders the notice. Everything later steps read is written
// here.
func (w *Workflow) fetchAndRender(ctx context.Context, run *Run) error {
	snap, err := w.deps.Jira.GetIssue(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("unable to retrieve %s: %w", run.ID, err)
	}
	run.Snapshot = snap

	prefix, _, _ := strings.Cut(run.ID, "-")
	proj, ok := w.opts.Projects.Project(prefix)
	if !ok {
		return UnsupportedProjectErr{Project: prefix}
	}
	run.Project = proj

	escalation := snap.OptionValue(proj.Fields.EscalationLevel)
	if escalation == "" {
		return MissingEscalationLevelErr{ID: run.ID}
	}
	recipient := recipientFor(proj.EscalationRecipients, escalation)
	if recipient == "" {
		return fmt.Errorf("no recipient configured for escalation level %q", escalation)
	}

	run.Resolved = snap.StatusName == w.opts.Projects.ResolvedStatus
	run.Derived = notice.Derive(snap, proj, w.opts.Projects.ResolvedStatus, w.opts.JiraURL)

	renderer, err := w.deps.RendererFor(proj)
	if err != nil {
		return fmt.Errorf("could not load templates for project %s: %w", proj.Key, err)
	}
	text, html, err := renderer.Render(run.Derived)
	if err != nil {
		return err
	}

	run.Notice = &mailer.Message{
		From:    w.opts.Sender,
		To:      recipient,
		Subject: notice.Subject(run.ID, snap.Summary, run.Resolved),
		Text:    text,
		HTML:    html,
	}

	if !proj.SkipStatusPage {
		w.statusPage = w.deps.StatusPageFor(proj)
	}
	return nil
}

// recipientFor resolves the notice recipient: a per-level environment
// override (IM_NOTICES_EMAIL_L<n>, where n is the numeric part of e.g.
// "Escalation Level 2") wins over the project's recipient map.
func recipientFor(recipients map[string]string, escalation string) string {
	tokens := strings.Split(escalation, " ")
	if len(tokens) >= 3 {
		if override := os.Getenv("IM_NOTICES_EMAIL_L" + tokens[2]); override != "" {
			return override
		}
	}
	return recipients[escalation]
}

// preview prints the notice to the operator. Pure side effect.
func (w *Workflow) preview(_ context.Context, run *Run) error {
	fmt.Fprintf(w.deps.Reporter.Out, "To: %s\n", run.Notice.To)
	fmt.Fprintf(w.deps.Reporter.Out, "Subject: %s\n", run.Notice.Subject)
	fmt.Fprintln(w.deps.Reporter.Out, run.Notice.Text)
	return nil
}

// validate rejects tickets that must not be notified automatically and, when
// status-page integration is enabled, resolves affected services to component
// ids. A catalog fetch failure is soft: the run continues with every later
// status-page write suppressed.
func (w *Workflow) validate(ctx context.Context, run *Run) error {
	for _, issueType := range run.Project.ManualIssueTypes {
		if run.Snapshot.IssueType == issueType {
			w.deps.Reporter.Fail("JIRA", "manual notifications required for any %s incident", issueType)
			return ManualHandlingRequiredErr{IssueType: issueType}
		}
	}

	if run.Derived.ResolutionActions == "" {
		return IncompleteTicketErr{Field: "resolution actions"}
	}
	if run.Derived.Details.IncidentDescription == "" {
		return IncompleteTicketErr{Field: "description"}
	}
	if run.Derived.CurrentStatus == "" {
		return IncompleteTicketErr{Field: "current status"}
	}

	if run.Project.SkipStatusPage {
		return nil
	}

	components, err := w.statusPage.ListComponents(ctx)
	if err != nil {
		w.soft(run, "statuspage.io", "could not fetch components, services not validated: %v", err)
		run.suppressPageWrites = true
		return nil
	}

	catalog := componentCatalog(components)
	for _, service := range run.Derived.Services {
		id, ok := catalog[service]
		if !ok {
			return UnknownServiceErr{Service: service}
		}
		run.ComponentIDs = append(run.ComponentIDs, id)
	}
	return nil
}

// componentCatalog keys the catalog by bare name for top-level components and
// by "name: group" for grouped ones, matching how services are named on tickets.
func componentCatalog(components []statuspage.Component) map[string]string {
	groups := make(map[string]string)
	for _, c := range components {
		if c.GroupID == "" {
			groups[c.ID] = c.Name
		}
	}

	catalog := make(map[string]string, len(components))
	for _, c := range components {
		if c.GroupID == "" {
			catalog[c.Name] = c.ID
		} else {
			catalog[c.Name+": "+groups[c.GroupID]] = c.ID
		}
	}
	return catalog
}

// confirm asks the operator for an explicit go-ahead. Anything but an exact
// "Y" aborts without sending.
func (w *Workflow) confirm(_ context.Context, run *Run) error {
	answer, err := w.deps.Prompt.Ask("Send notification? [Y/n]")
	if err != nil {
		return NotSentErr{}
	}
	if answer != "Y" {
		return NotSentErr{}
	}
	return nil
}

// stalenessCheck re-fetches the ticket and aborts if it changed since the
// preview was rendered. There is no in-flight state across runs, so a re-run
// always starts from fresh data.
func (w *Workflow) stalenessCheck(ctx context.Context, run *Run) error {
	fresh, err := w.deps.Jira.GetIssue(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("unable to retrieve %s: %w", run.ID, err)
	}
	if !fresh.Updated.Equal(run.Snapshot.Updated) {
		w.deps.Reporter.Warn("JIRA", "the notice preview is stale, please re-run im-notices for the latest data")
		return StalePreviewErr{ID: run.ID}
	}
	return nil
}

// sendNotification delivers the notice. Everything after this step records
// that a notice was sent, so delivery failure is fatal.
func (w *Workflow) sendNotification(ctx context.Context, run *Run) error {
	if err := w.deps.Mailer.Send(ctx, run.Notice); err != nil {
		return DeliveryFailedErr{Err: err}
	}
	w.deps.Reporter.OK("Email", "Sent.")
	metrics.Inc(metrics.NoticesSent, run.Project.Key)
	return nil
}
