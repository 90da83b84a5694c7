// Package notice derives the presentation data for one incident and renders
// the outbound message bodies from templates.
package notice

import (
	"strings"
	"time"

	"github.com/supportops/im-notices/pkg/jira"
	"github.com/supportops/im-notices/pkg/project"
)

// Details carries the secondary fields shown in the notice footer and kept in
// the audit record.
type Details struct {
	Priority            string `json:"priority"`
	RootCause           string `json:"root_cause"`
	IncidentStartTime   string `json:"incident_start_time"`
	IncidentEndTime     string `json:"incident_end_time"`
	IncidentDuration    string `json:"incident_duration"`
	IncidentDescription string `json:"incident_description"`
	IncidentStatus      string `json:"incident_status"`
	IssueType           string `json:"issue_type"`
	IncidentManager     string `json:"incident_manager,omitempty"`
	Location            string `json:"location"`
}

// DerivedFields is the template context computed once from the issue snapshot.
type DerivedFields struct {
	ID      string `json:"id"`
	Project string `json:"project"`
	Cloud   string `json:"cloud"`
	JiraURL string `json:"jira"`
	Summary string `json:"summary"`

	CurrentStatus         string `json:"current_status"`
	CurrentStatusText     string `json:"current_status_txt"`
	Impact                string `json:"impact"`
	ImpactText            string `json:"impact_txt"`
	ResolutionActions     string `json:"resolution_actions"`
	ResolutionActionsText string `json:"resolution_actions_txt"`

	IncidentStatus string   `json:"incident_status"`
	Urgency        string   `json:"urgency"`
	Services       []string `json:"services"`
	ServiceImpact  string   `json:"service_impact"`
	Resolved       bool     `json:"resolved"`

	Details Details `json:"details"`
}

// Derive computes the presentation data from the snapshot. It is called once
// per run; later steps only read the result.
func Derive(snap *jira.IssueSnapshot, proj *project.Project, resolvedStatus, jiraURL string) *DerivedFields {
	f := proj.Fields

	d := &DerivedFields{
		ID:      snap.Key,
		Project: proj.Key,
		Cloud:   proj.Cloud,
		JiraURL: jiraURL,
		Summary: snap.Summary,

		CurrentStatus:         snap.StringField(f.CurrentStatus),
		CurrentStatusText:     LeftPad(snap.StringField(f.CurrentStatus)),
		Impact:                snap.StringField(f.Impact),
		ImpactText:            LeftPad(snap.StringField(f.ImpactText)),
		ResolutionActions:     snap.StringField(f.ResolutionActions),
		ResolutionActionsText: LeftPad(snap.StringField(f.ResolutionActions)),

		IncidentStatus: snap.StatusName,
		Urgency:        snap.OptionValue(f.Urgency),
		Services:       snap.OptionValues(f.Services),
		ServiceImpact:  snap.OptionValue(f.ServiceImpact),
		Resolved:       snap.StatusName == resolvedStatus,

		Details: Details{
			Priority:            snap.Priority,
			RootCause:           snap.StringField(f.RootCause),
			IncidentStartTime:   formatTimestamp(snap.StringField(f.Start), proj.DateFormat),
			IncidentEndTime:     formatTimestamp(snap.StringField(f.End), proj.DateFormat),
			IncidentDuration:    snap.StringField(f.Duration),
			IncidentDescription: snap.Description,
			IncidentStatus:      snap.StatusName,
			IssueType:           snap.IssueType,
			IncidentManager:     snap.AssigneeName,
		},
	}

	if len(d.Services) > 0 {
		d.Details.Location = strings.Join(d.Services, ", ")
	} else {
		d.Details.Location = "None"
	}

	return d
}

// LeftPad prepends one space to every line, indenting pasted ticket text in
// the plain-text notice.
func LeftPad(txt string) string {
	if txt == "" {
		return ""
	}
	return " " + strings.Join(strings.Split(txt, "\n"), "\n ")
}

// Subject builds the notice subject line.
func Subject(id, summary string, resolved bool) string {
	subject := "Incident Alert: " + id + " - " + summary
	if resolved {
		subject = "[Resolved] " + subject
	}
	return subject
}

// jiraTimeLayouts are the formats Jira datetime custom fields arrive in.
var jiraTimeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
	"2006-01-02",
}

// formatTimestamp re-renders a Jira datetime into the project's display
// format in UTC. Unparseable values pass through untouched.
func formatTimestamp(raw, layout string) string {
	if raw == "" {
		return ""
	}
	for _, l := range jiraTimeLayouts {
		if t, err := time.Parse(l, raw); err == nil {
			return t.UTC().Format(layout)
		}
	}
	return raw
}

// IncidentDetails builds the statuspage.io incident body. The service renders
// CRLF line breaks.
func IncidentDetails(d *DerivedFields) string {
	details := "\r\n" +
		"CURRENT STATUS:\r\n" +
		d.CurrentStatusText + "\r\n" +
		"\r\nIMPACT:\r\n" +
		d.ImpactText + "\r\n"

	return details + "\r\n\r\n" + "Internal ID: " + d.ID
}
