// Package workflow drives one notice run: a fixed sequence of steps sharing
// a single mutable Run, with fatal errors aborting the pipeline and soft
// failures recorded and carried through.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/supportops/im-notices/pkg/archive"
	"github.com/supportops/im-notices/pkg/jira"
	"github.com/supportops/im-notices/pkg/logging"
	"github.com/supportops/im-notices/pkg/mailer"
	"github.com/supportops/im-notices/pkg/metrics"
	"github.com/supportops/im-notices/pkg/notice"
	"github.com/supportops/im-notices/pkg/project"
	"github.com/supportops/im-notices/pkg/prompt"
	"github.com/supportops/im-notices/pkg/report"
	"github.com/supportops/im-notices/pkg/statuspage"
)

// Deps are the collaborator handles injected into a workflow. Every step is a
// stateless function over (context, *Run) plus these handles, which keeps the
// steps unit-testable against fakes.
type Deps struct {
	Jira jira.Client

	// StatusPageFor builds the status-page client for a project once its
	// configuration is known. Never called for projects that skip the page.
	StatusPageFor func(p *project.Project) statuspage.Client

	// RendererFor builds the notice renderer for a project, honoring its
	// template dir override.
	RendererFor func(p *project.Project) (*notice.Renderer, error)

	Mailer  mailer.Mailer
	Archive archive.Putter
	Prompt  prompt.Prompt

	Clock    clockwork.Clock
	Reporter *report.Reporter
	Logger   *zap.SugaredLogger
}

// Options carry the run-independent policy configuration.
type Options struct {
	// Projects is the loaded project configuration file.
	Projects *project.Config
	// Sender is the notice From address.
	Sender string
	// JiraURL is the browse url base used in rendered notices.
	JiraURL string
}

// Workflow executes notice runs. One Workflow handles one run at a time; the
// Run is exclusively owned for the duration of Execute.
type Workflow struct {
	deps Deps
	opts Options

	// statusPage is set by the fetch step for projects with status-page
	// integration enabled.
	statusPage statuspage.Client
}

// New builds a workflow, filling in default clock, reporter and logger.
func New(deps Deps, opts Options) *Workflow {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Reporter == nil {
		deps.Reporter = report.Default
	}
	if deps.Logger == nil {
		deps.Logger = logging.RawLogger
	}
	if deps.RendererFor == nil {
		deps.RendererFor = func(p *project.Project) (*notice.Renderer, error) {
			return notice.NewRenderer(p.TemplateDir)
		}
	}
	return &Workflow{deps: deps, opts: opts}
}

// Step is one unit of the pipeline.
type Step struct {
	Name string
	Run  func(ctx context.Context, run *Run) error
}

// Steps returns the fixed pipeline order. Later steps only read fields
// written by earlier ones.
func (w *Workflow) Steps() []Step {
	return []Step{
		{"fetch-and-render", w.fetchAndRender},
		{"preview", w.preview},
		{"validate", w.validate},
		{"confirm", w.confirm},
		{"staleness-check", w.stalenessCheck},
		{"send-notification", w.sendNotification},
		{"check-status-notice", w.checkStatusNotice},
		{"sanity-check-status-notice", w.sanityCheckStatusNotice},
		{"create-status-notice", w.createStatusNotice},
		{"update-status-notice", w.updateStatusNotice},
		{"update-ticket", w.updateTicket},
		{"add-comment", w.addComment},
		{"archive-log", w.archiveLog},
	}
}

// Execute runs the pipeline for one ticket id. The finalizer releases the
// prompt handle and pushes metrics on every path, success or failure.
func (w *Workflow) Execute(ctx context.Context, id string) error {
	run := &Run{ID: strings.ToUpper(id), Errors: []ServiceError{}}

	defer func() {
		if err := w.deps.Prompt.Close(); err != nil {
			w.deps.Logger.Warnf("could not release prompt: %v", err)
		}
		metrics.Push()
	}()

	for _, step := range w.Steps() {
		w.deps.Logger.Debugf("running step %s", step.Name)
		if err := step.Run(ctx, run); err != nil {
			metrics.Inc(metrics.FatalAborts, ErrorKind(err))
			return err
		}
	}
	return nil
}

// soft records a non-fatal failure: reported to the operator, logged, and
// accumulated on the run for the audit record. The pipeline continues.
func (w *Workflow) soft(run *Run, service, format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	w.deps.Reporter.Fail(service, "%s", msg)
	w.deps.Logger.Warnf("%s: %s (continuing with reduced functionality)", service, msg)
	run.Errors = append(run.Errors, ServiceError{Service: service, Message: msg})
}
