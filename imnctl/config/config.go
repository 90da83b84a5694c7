// Package config assembles the runtime configuration imnctl needs from the
// environment. Per-project notice policy lives in the YAML file loaded by
// pkg/project; this package only covers credentials and endpoints.
package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds every credential and endpoint for one invocation.
type Config struct {
	JiraURL      string `env:"IMN_JIRA_URL, required"`
	JiraUsername string `env:"IMN_JIRA_USERNAME, required"`
	JiraToken    string `env:"IMN_JIRA_TOKEN, required"`

	SMTPHost     string `env:"IMN_SMTP_HOST, required"`
	SMTPPort     int    `env:"IMN_SMTP_PORT, default=25"`
	SMTPUsername string `env:"IMN_SMTP_USERNAME"`
	SMTPPassword string `env:"IMN_SMTP_PASSWORD"`
	Sender       string `env:"IMN_SENDER, required"`

	StatusPageURL   string `env:"IMN_STATUSPAGE_URL, default=https://api.statuspage.io/v1/pages/"`
	StatusPageToken string `env:"IMN_STATUSPAGE_TOKEN"`

	// ArchiveBucket is a gocloud.dev bucket url (s3://..., file://...).
	// When empty the audit record only goes to the local fallback dir.
	ArchiveBucket      string `env:"IMN_ARCHIVE_BUCKET"`
	ArchivePrefix      string `env:"IMN_ARCHIVE_PREFIX"`
	ArchiveFallbackDir string `env:"IMN_ARCHIVE_FALLBACK_DIR, default=/var/tmp"`

	ProjectConfig string `env:"IMN_PROJECT_CONFIG, default=etc/projects.yaml"`
}

// Load reads the configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	var c Config
	if err := envconfig.Process(ctx, &c); err != nil {
		return nil, fmt.Errorf("could not read configuration from environment: %w", err)
	}
	return &c, nil
}
