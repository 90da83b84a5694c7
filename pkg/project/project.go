// Package project loads the per-project field-mapping and policy configuration.
// Each Jira project that notices can be sent for needs its own entry keyed by
// the ticket id prefix (e.g. "SCI" for SCI-1234 tickets).
package project

import (
	"fmt"

	"github.com/spf13/viper"
)

// FieldIDs maps the logical ticket fields onto Jira custom field ids.
type FieldIDs struct {
	CurrentStatus     string `mapstructure:"current_status"`
	Impact            string `mapstructure:"impact"`
	ImpactText        string `mapstructure:"impact_text"`
	ResolutionActions string `mapstructure:"resolution_actions"`
	Urgency           string `mapstructure:"urgency"`
	Services          string `mapstructure:"services"`
	RootCause         string `mapstructure:"root_cause"`
	Start             string `mapstructure:"start"`
	End               string `mapstructure:"end"`
	Duration          string `mapstructure:"duration"`
	EscalationLevel   string `mapstructure:"escalation_level"`
	ExternalLink      string `mapstructure:"external_link"`
	ServiceImpact     string `mapstructure:"service_impact"`
	Reason            string `mapstructure:"reason"`
}

// Project holds one project's notice policy.
type Project struct {
	Key        string `mapstructure:"-"`
	Cloud      string `mapstructure:"cloud"`
	DateFormat string `mapstructure:"date_format"`

	// SkipStatusPage disables every statuspage.io interaction for the project.
	SkipStatusPage bool   `mapstructure:"skip_status_page"`
	StatusPagePage string `mapstructure:"statuspage_page"`
	// IncidentURL is the public link prefix an incident id is appended to.
	IncidentURL string `mapstructure:"incident_url"`

	// ManualIssueTypes lists issue types that must never be notified
	// automatically (e.g. Security).
	ManualIssueTypes []string `mapstructure:"manual_issue_types"`

	TemplateDir string `mapstructure:"template_dir"`

	Fields FieldIDs `mapstructure:"fields"`

	// EscalationRecipients maps the full escalation-level field value to a
	// recipient address, unless overridden via IM_NOTICES_EMAIL_L<n>.
	EscalationRecipients map[string]string `mapstructure:"escalation_recipients"`

	// IncidentStatusMap maps the Jira status name to a statuspage incident status.
	IncidentStatusMap map[string]string `mapstructure:"incident_status_map"`

	// ImpactMap maps the service-impact field value to a statuspage component status.
	ImpactMap map[string]string `mapstructure:"impact_map"`
}

// Config is the full project configuration file.
type Config struct {
	// ResolvedStatus is the Jira status name that marks a ticket resolved.
	ResolvedStatus string `mapstructure:"resolved_status"`

	Projects map[string]Project `mapstructure:"projects"`
}

// Load reads and validates the YAML configuration at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read project config %q: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode project config: %w", err)
	}

	if cfg.ResolvedStatus == "" {
		cfg.ResolvedStatus = "Resolved"
	}

	for key, p := range cfg.Projects {
		p.Key = key
		if err := validateProject(&p); err != nil {
			return nil, fmt.Errorf("project %q: %w", key, err)
		}
		cfg.Projects[key] = p
	}

	return &cfg, nil
}

func validateProject(p *Project) error {
	if len(p.EscalationRecipients) == 0 {
		return fmt.Errorf("escalation_recipients is required")
	}
	if p.DateFormat == "" {
		return fmt.Errorf("date_format is required")
	}
	if !p.SkipStatusPage {
		if p.StatusPagePage == "" {
			return fmt.Errorf("statuspage_page is required unless skip_status_page is set")
		}
		if p.IncidentURL == "" {
			return fmt.Errorf("incident_url is required unless skip_status_page is set")
		}
		if len(p.IncidentStatusMap) == 0 {
			return fmt.Errorf("incident_status_map is required unless skip_status_page is set")
		}
		if len(p.ImpactMap) == 0 {
			return fmt.Errorf("impact_map is required unless skip_status_page is set")
		}
	}
	return nil
}

// Project returns the configuration for the given ticket id prefix.
func (c *Config) Project(prefix string) (*Project, bool) {
	p, ok := c.Projects[prefix]
	if !ok {
		return nil, false
	}
	return &p, true
}
