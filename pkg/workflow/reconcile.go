package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/supportops/im-notices/pkg/metrics"
	"github.com/supportops/im-notices/pkg/notice"
	"github.com/supportops/im-notices/pkg/statuspage"
)

// checkStatusNotice decides whether this run creates a new status-page
// incident or updates the one the ticket already links to.
func (w *Workflow) checkStatusNotice(_ context.Context, run *Run) error {
	if run.Project.SkipStatusPage || run.suppressPageWrites {
		run.setPageState(PageSkip)
		return nil
	}

	raw := run.Snapshot.StringField(run.Project.Fields.ExternalLink)
	parsed, err := url.Parse(raw)
	if raw == "" || err != nil || parsed.Scheme == "" {
		run.setPageState(PageCreatePending)
		return nil
	}

	segments := strings.Split(strings.TrimRight(parsed.Path, "/"), "/")
	incID := segments[len(segments)-1]
	if incID == "" {
		w.soft(run, "statuspage.io", "the ticket has an invalid external notice link: %q", raw)
		run.setPageState(PageSkip)
		return nil
	}

	run.PageIncidentID = incID
	run.setPageState(PageUpdatePending)
	return nil
}

// sanityCheckStatusNotice verifies the linked incident still exists before
// updating it. Acting on a deleted or invalid incident id makes the service
// return a misleading authentication-style error instead of a not-found, so
// the id is checked against the open-incident listing first.
func (w *Workflow) sanityCheckStatusNotice(ctx context.Context, run *Run) error {
	if run.PageState != PageUpdatePending {
		return nil
	}

	incidents, err := w.statusPage.ListIncidents(ctx)
	if err != nil {
		w.soft(run, "statuspage.io", "could not list incidents: %v", err)
		run.setPageState(PageSkip)
		return nil
	}

	for _, inc := range incidents {
		if inc.ID == run.PageIncidentID {
			return nil
		}
	}

	w.soft(run, "statuspage.io",
		"the ticket has an external notice link but incident %s could not be found on statuspage.io", run.PageIncidentID)
	run.setPageState(PageSkip)
	return nil
}

// createStatusNotice submits a new incident and patches the affected
// components. A service-reported application error is soft; the ticket-side
// bookkeeping and archive steps still run.
func (w *Workflow) createStatusNotice(ctx context.Context, run *Run) error {
	if run.PageState != PageCreatePending {
		return nil
	}

	// A resolved ticket with no existing incident would need a historical
	// incident, which is not supported: it has to be created manually.
	if run.Resolved {
		w.soft(run, "statuspage.io",
			"the ticket is resolved but has no status-page incident attached; historical incidents must be created manually")
		run.setPageState(PageSkip)
		return nil
	}

	req := statuspage.IncidentRequest{
		Name:                 run.Snapshot.Summary,
		Status:               run.Project.IncidentStatusMap[run.Snapshot.StatusName],
		Body:                 notice.IncidentDetails(run.Derived),
		ComponentIDs:         run.ComponentIDs,
		DeliverNotifications: true,
	}

	created, err := w.statusPage.CreateIncident(ctx, req)
	switch {
	case errors.Is(err, statuspage.APIErr{}):
		w.soft(run, "statuspage.io", "a notice was not posted: %v", err)
	case err != nil:
		return fmt.Errorf("could not create statuspage incident: %w", err)
	default:
		run.PageIncidentID = created.ID
		run.PageLink = run.Project.IncidentURL + created.ID
		run.Created = true
		w.deps.Reporter.OK("statuspage.io", "Notice posted: %s", run.PageLink)
		metrics.Inc(metrics.StatusPageIncidents, run.Project.Key, "create")
	}

	// Components are patched regardless of the incident outcome, from the
	// raw impact mapping.
	w.patchComponents(ctx, run, run.Project.ImpactMap[run.Derived.ServiceImpact])
	return nil
}

// updateStatusNotice refreshes the existing incident and patches the affected
// components, forcing them operational once the incident is monitoring or
// resolved.
func (w *Workflow) updateStatusNotice(ctx context.Context, run *Run) error {
	if run.PageState != PageUpdatePending {
		return nil
	}

	status := run.Project.IncidentStatusMap[run.Snapshot.StatusName]
	req := statuspage.IncidentRequest{
		Name:                 run.Snapshot.Summary,
		Status:               status,
		Body:                 notice.IncidentDetails(run.Derived),
		ComponentIDs:         run.ComponentIDs,
		DeliverNotifications: true,
	}

	updated, err := w.statusPage.UpdateIncident(ctx, run.PageIncidentID, req)
	switch {
	case errors.Is(err, statuspage.APIErr{}):
		w.soft(run, "statuspage.io", "the notice was not updated: %v", err)
	case err != nil:
		return fmt.Errorf("could not update statuspage incident %s: %w", run.PageIncidentID, err)
	default:
		run.PageLink = run.Project.IncidentURL + updated.ID
		w.deps.Reporter.OK("statuspage.io", "Notice updated: %s", run.PageLink)
		metrics.Inc(metrics.StatusPageIncidents, run.Project.Key, "update")
	}

	componentStatus := run.Project.ImpactMap[run.Derived.ServiceImpact]
	if status == "monitoring" || status == "resolved" {
		componentStatus = "operational"
	}
	w.patchComponents(ctx, run, componentStatus)
	return nil
}

// patchComponents fans out one status patch per component. The patches are
// order-independent and each failure is collected as its own soft error; the
// step completes only after every patch has been attempted.
func (w *Workflow) patchComponents(ctx context.Context, run *Run, status string) {
	if status == "" || len(run.ComponentIDs) == 0 {
		return
	}

	type patchResult struct {
		componentID string
		err         error
	}

	var wg sync.WaitGroup
	results := make(chan patchResult, len(run.ComponentIDs))

	for _, id := range run.ComponentIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			results <- patchResult{componentID: id, err: w.statusPage.PatchComponent(ctx, id, status)}
		}(id)
	}

	wg.Wait()
	close(results)

	// Reporting happens on the pipeline goroutine only.
	for r := range results {
		if r.err != nil {
			w.soft(run, "statuspage.io", "component %s was not updated: %v", r.componentID, r.err)
			continue
		}
		w.deps.Reporter.OK("statuspage.io", "Component %s updated.", r.componentID)
	}
}
