// Package jira wraps the go-jira client with the small surface the notice
// workflow needs: fetch a point-in-time issue snapshot, merge fields, and
// append a comment.
package jira

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gojira "github.com/andygrunwald/go-jira"
)

// jiraTimeout bounds every api request.
const jiraTimeout = time.Second * 30

// Client is the issue-tracker surface consumed by the workflow.
type Client interface {
	GetIssue(ctx context.Context, id string) (*IssueSnapshot, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	AddComment(ctx context.Context, id string, body string) error
}

// Jira holds all of the required fields for any Jira operation
type Jira struct {
	c *gojira.Client
	// browseURL is the base url issue links are built from
	browseURL string
}

// NewWithCredentials builds a client from a base url and basic-auth credentials.
// Jira Cloud api tokens are passed as the password.
func NewWithCredentials(baseURL, username, token string) (*Jira, error) {
	tp := gojira.BasicAuthTransport{
		Username: username,
		Password: token,
	}
	c, err := gojira.NewClient(tp.Client(), baseURL)
	if err != nil {
		return nil, fmt.Errorf("could not create a new jira client: %w", err)
	}
	return &Jira{c: c, browseURL: baseURL}, nil
}

// New wraps an already-configured go-jira client.
func New(c *gojira.Client, browseURL string) *Jira {
	return &Jira{c: c, browseURL: browseURL}
}

// BrowseURL returns the base url of the tracked Jira instance.
func (j *Jira) BrowseURL() string {
	return j.browseURL
}

// GetIssue fetches the issue and returns a point-in-time snapshot of its fields.
func (j *Jira) GetIssue(ctx context.Context, id string) (*IssueSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, jiraTimeout)
	defer cancel()

	issue, resp, err := j.c.Issue.GetWithContext(ctx, id, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, NotFoundErr{Err: err}
		}
		return nil, TransportErr{Err: fmt.Errorf("could not fetch issue %s: %w", id, err)}
	}

	return newSnapshot(issue), nil
}

// UpdateFields merges the named fields into the issue.
func (j *Jira) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, jiraTimeout)
	defer cancel()

	data := map[string]interface{}{"fields": fields}
	resp, err := j.c.Issue.UpdateIssueWithContext(ctx, id, data)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return NotFoundErr{Err: err}
		}
		return TransportErr{Err: fmt.Errorf("could not update issue %s: %w", id, err)}
	}
	return nil
}

// AddComment appends a comment to the issue.
func (j *Jira) AddComment(ctx context.Context, id string, body string) error {
	ctx, cancel := context.WithTimeout(ctx, jiraTimeout)
	defer cancel()

	_, resp, err := j.c.Issue.AddCommentWithContext(ctx, id, &gojira.Comment{Body: body})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return NotFoundErr{Err: err}
		}
		return TransportErr{Err: fmt.Errorf("could not comment on issue %s: %w", id, err)}
	}
	return nil
}
