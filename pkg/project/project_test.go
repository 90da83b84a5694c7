package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
resolved_status: Resolved
projects:
  SCI:
    cloud: SPC
    date_format: "2006-01-02 15:04 MST"
    statuspage_page: qwrt12
    incident_url: https://status.example.com/incidents/
    manual_issue_types:
      - Security
    fields:
      current_status: customfield_10001
      impact: customfield_10002
      impact_text: customfield_10003
      resolution_actions: customfield_10004
      services: customfield_10005
      escalation_level: customfield_10006
      external_link: customfield_10007
      service_impact: customfield_10008
    escalation_recipients:
      "Escalation Level 1": l1-notices@example.com
      "Escalation Level 2": l2-notices@example.com
    incident_status_map:
      Investigating: investigating
      Identified: identified
      Monitoring: monitoring
      Resolved: resolved
    impact_map:
      "Full Outage": major_outage
      "Partial Outage": partial_outage
      "Degraded Performance": degraded_performance
  OPS:
    date_format: "2006-01-02 15:04 MST"
    skip_status_page: true
    escalation_recipients:
      "Escalation Level 1": ops@example.com
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "Resolved", cfg.ResolvedStatus)

	sci, ok := cfg.Project("SCI")
	require.True(t, ok)
	assert.Equal(t, "SCI", sci.Key)
	assert.Equal(t, "SPC", sci.Cloud)
	assert.False(t, sci.SkipStatusPage)
	assert.Equal(t, "customfield_10001", sci.Fields.CurrentStatus)
	assert.Equal(t, "l2-notices@example.com", sci.EscalationRecipients["Escalation Level 2"])
	assert.Equal(t, "investigating", sci.IncidentStatusMap["Investigating"])
	assert.Equal(t, "major_outage", sci.ImpactMap["Full Outage"])

	ops, ok := cfg.Project("OPS")
	require.True(t, ok)
	assert.True(t, ops.SkipStatusPage)

	_, ok = cfg.Project("NOPE")
	assert.False(t, ok)
}

func TestLoadRejectsIncompleteProject(t *testing.T) {
	// statuspage integration enabled but no maps configured
	broken := `
projects:
  SCI:
    date_format: "2006-01-02 15:04 MST"
    statuspage_page: qwrt12
    incident_url: https://status.example.com/incidents/
    escalation_recipients:
      "Escalation Level 1": l1@example.com
`
	_, err := Load(writeConfig(t, broken))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incident_status_map")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
