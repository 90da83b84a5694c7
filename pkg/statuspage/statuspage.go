// Package statuspage is a thin client for the statuspage.io REST api. It
// distinguishes transport failures from application-level errors, which the
// service reports inside an otherwise-successful response body.
package statuspage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// statusPageTimeout bounds every api request.
const statusPageTimeout = time.Second * 30

// Client is the status-page surface consumed by the workflow.
type Client interface {
	ListIncidents(ctx context.Context) ([]Incident, error)
	CreateIncident(ctx context.Context, req IncidentRequest) (*Incident, error)
	UpdateIncident(ctx context.Context, id string, req IncidentRequest) (*Incident, error)
	PatchComponent(ctx context.Context, id string, status string) error
	ListComponents(ctx context.Context) ([]Component, error)
}

// Incident is a status-page incident record.
type Incident struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Component is one customer-visible service on the status page. GroupID is
// empty for top-level components.
type Component struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GroupID string `json:"group_id"`
}

// IncidentRequest is the create/update payload for an incident.
type IncidentRequest struct {
	Name                 string   `json:"name"`
	Status               string   `json:"status,omitempty"`
	Body                 string   `json:"body"`
	ComponentIDs         []string `json:"component_ids"`
	DeliverNotifications bool     `json:"deliver_notifications"`
}

// StatusPage holds all of the required fields for any statuspage.io operation
type StatusPage struct {
	httpClient *http.Client
	baseURL    string
	pageID     string
	token      string
}

// New creates a client for one status page. baseURL is the api root
// (e.g. https://api.statuspage.io/v1/pages/), pageID the page identifier.
func New(baseURL, pageID, token string) *StatusPage {
	c := cleanhttp.DefaultClient()
	c.Timeout = statusPageTimeout
	return &StatusPage{
		httpClient: c,
		baseURL:    baseURL,
		pageID:     pageID,
		token:      token,
	}
}

// ListIncidents returns the incidents currently listed on the page.
func (s *StatusPage) ListIncidents(ctx context.Context) ([]Incident, error) {
	var incidents []Incident
	if err := s.do(ctx, http.MethodGet, "/incidents.json", nil, &incidents); err != nil {
		return nil, err
	}
	return incidents, nil
}

// CreateIncident submits a new incident and returns the created record.
func (s *StatusPage) CreateIncident(ctx context.Context, req IncidentRequest) (*Incident, error) {
	var created Incident
	body := map[string]IncidentRequest{"incident": req}
	if err := s.do(ctx, http.MethodPost, "/incidents.json", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateIncident patches an existing incident and returns the updated record.
func (s *StatusPage) UpdateIncident(ctx context.Context, id string, req IncidentRequest) (*Incident, error) {
	var updated Incident
	body := map[string]IncidentRequest{"incident": req}
	if err := s.do(ctx, http.MethodPatch, "/incidents/"+id+".json", body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// PatchComponent sets the status of one component.
func (s *StatusPage) PatchComponent(ctx context.Context, id string, status string) error {
	body := map[string]map[string]string{
		"component": {"status": status},
	}
	return s.do(ctx, http.MethodPatch, "/components/"+id+".json", body, nil)
}

// ListComponents returns the full component catalog of the page.
func (s *StatusPage) ListComponents(ctx context.Context) ([]Component, error) {
	var components []Component
	if err := s.do(ctx, http.MethodGet, "/components.json", nil, &components); err != nil {
		return nil, err
	}
	return components, nil
}

// apiEnvelope is the error wrapper the service embeds in response bodies.
type apiEnvelope struct {
	Status struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	} `json:"status"`
}

func (s *StatusPage) do(ctx context.Context, method, path string, reqBody, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, statusPageTimeout)
	defer cancel()

	var bodyReader io.Reader
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("could not encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	url := s.baseURL + s.pageID + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("could not build request for %s: %w", url, err)
	}
	req.Header.Set("Authorization", "OAuth "+s.token)
	req.Header.Set("Connection", "close")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return TransportErr{Err: fmt.Errorf("request to %s failed: %w", url, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return TransportErr{Err: fmt.Errorf("could not read response from %s: %w", url, err)}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return TransportErr{Err: fmt.Errorf("%s returned status %d", url, resp.StatusCode)}
	}

	// The service flags application errors inside the body rather than via
	// the status code alone, so check the envelope on every object response.
	if len(data) > 0 && data[0] == '{' {
		var envelope apiEnvelope
		if err := json.Unmarshal(data, &envelope); err == nil && envelope.Status.Error == "yes" {
			return APIErr{Message: envelope.Status.Message}
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return APIErr{Message: fmt.Sprintf("%s returned status %d: %s", url, resp.StatusCode, string(data))}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return TransportErr{Err: fmt.Errorf("could not decode response from %s: %w", url, err)}
		}
	}
	return nil
}
