package jira

import (
	"time"

	gojira "github.com/andygrunwald/go-jira"
)

// IssueSnapshot is a point-in-time copy of the fields a notice is rendered
// from. The Updated marker is compared later to detect a stale preview.
type IssueSnapshot struct {
	Key          string
	Summary      string
	Description  string
	StatusName   string
	IssueType    string
	Priority     string
	AssigneeName string
	Updated      time.Time

	custom map[string]interface{}
}

func newSnapshot(issue *gojira.Issue) *IssueSnapshot {
	s := &IssueSnapshot{
		Key:         issue.Key,
		Summary:     issue.Fields.Summary,
		Description: issue.Fields.Description,
		IssueType:   issue.Fields.Type.Name,
		Updated:     time.Time(issue.Fields.Updated),
		custom:      issue.Fields.Unknowns,
	}
	if issue.Fields.Status != nil {
		s.StatusName = issue.Fields.Status.Name
	}
	if issue.Fields.Priority != nil {
		s.Priority = issue.Fields.Priority.Name
	}
	if issue.Fields.Assignee != nil {
		s.AssigneeName = issue.Fields.Assignee.DisplayName
	}
	return s
}

// NewSnapshotForTest builds a snapshot from raw values. Only tests and fakes
// construct snapshots directly; production snapshots come from GetIssue.
func NewSnapshotForTest(key string, updated time.Time, fields map[string]interface{}) *IssueSnapshot {
	return &IssueSnapshot{Key: key, Updated: updated, custom: fields}
}

// SetDetails fills the standard fields on a hand-built snapshot.
func (s *IssueSnapshot) SetDetails(summary, description, statusName, issueType string) {
	s.Summary = summary
	s.Description = description
	s.StatusName = statusName
	s.IssueType = issueType
}

// StringField returns the custom field value as a string, or "" when absent
// or of another type.
func (s *IssueSnapshot) StringField(id string) string {
	if id == "" {
		return ""
	}
	v, ok := s.custom[id].(string)
	if !ok {
		return ""
	}
	return v
}

// OptionValue returns the "value" of a select-type custom field.
func (s *IssueSnapshot) OptionValue(id string) string {
	if id == "" {
		return ""
	}
	opt, ok := s.custom[id].(map[string]interface{})
	if !ok {
		return ""
	}
	v, _ := opt["value"].(string)
	return v
}

// OptionValues returns the "value" entries of a multi-select custom field,
// preserving order.
func (s *IssueSnapshot) OptionValues(id string) []string {
	if id == "" {
		return nil
	}
	raw, ok := s.custom[id].([]interface{})
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, entry := range raw {
		opt, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if v, ok := opt["value"].(string); ok {
			values = append(values, v)
		}
	}
	return values
}
