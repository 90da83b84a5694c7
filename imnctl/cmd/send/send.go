// Package send holds the send command
package send

import (
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/supportops/im-notices/imnctl/config"
	"github.com/supportops/im-notices/pkg/archive"
	"github.com/supportops/im-notices/pkg/jira"
	"github.com/supportops/im-notices/pkg/logging"
	"github.com/supportops/im-notices/pkg/mailer"
	"github.com/supportops/im-notices/pkg/project"
	"github.com/supportops/im-notices/pkg/prompt"
	"github.com/supportops/im-notices/pkg/statuspage"
	"github.com/supportops/im-notices/pkg/workflow"
)

// SendCmd represents the entry point for sending one incident notice
var SendCmd = &cobra.Command{
	Use:   "send TICKET-ID",
	Short: "Render, confirm and deliver the notice for one incident ticket",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

var (
	logLevelString    = "info"
	projectConfigPath = ""
)

func init() {
	SendCmd.Flags().StringVarP(&logLevelString, "log-level", "l", logLevelString, "the log level [debug,info,warn,error,fatal], default = info")
	SendCmd.Flags().StringVarP(&projectConfigPath, "config", "c", projectConfigPath, "path to the project configuration file, overrides IMN_PROJECT_CONFIG")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ticketID := strings.ToUpper(args[0])

	// initialize logger for the ticket-id context
	logging.RawLogger = logging.InitLoggerWithTicket(logLevelString, ticketID)

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	path := projectConfigPath
	if path == "" {
		path = cfg.ProjectConfig
	}
	projects, err := project.Load(path)
	if err != nil {
		return fmt.Errorf("could not load project configuration: %w", err)
	}

	jiraClient, err := jira.NewWithCredentials(cfg.JiraURL, cfg.JiraUsername, cfg.JiraToken)
	if err != nil {
		return fmt.Errorf("could not initialize jira client: %w", err)
	}

	deps := workflow.Deps{
		Jira: jiraClient,
		StatusPageFor: func(p *project.Project) statuspage.Client {
			return statuspage.New(cfg.StatusPageURL, p.StatusPagePage, cfg.StatusPageToken)
		},
		Mailer:  mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		Archive: archive.New(cfg.ArchiveBucket, cfg.ArchivePrefix, cfg.ArchiveFallbackDir, clockwork.NewRealClock()),
		Prompt:  prompt.NewInteractive(),
	}
	opts := workflow.Options{
		Projects: projects,
		Sender:   cfg.Sender,
		JiraURL:  jiraClient.BrowseURL(),
	}

	return workflow.New(deps, opts).Execute(ctx, ticketID)
}
