package workflow

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/supportops/im-notices/pkg/jira"
	"github.com/supportops/im-notices/pkg/mailer"
	"github.com/supportops/im-notices/pkg/project"
	"github.com/supportops/im-notices/pkg/report"
	"github.com/supportops/im-notices/pkg/statuspage"
)

type fakeJira struct {
	snapshot *jira.IssueSnapshot
	// fresh, when set, is returned by every fetch after the first, to
	// simulate a ticket edited mid-run.
	fresh      *jira.IssueSnapshot
	getErr     error
	fetchCount int

	updatedFields map[string]interface{}
	updateErr     error
	comments      []string
	commentErr    error
}

func (f *fakeJira) GetIssue(_ context.Context, _ string) (*jira.IssueSnapshot, error) {
	f.fetchCount++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.fetchCount > 1 && f.fresh != nil {
		return f.fresh, nil
	}
	return f.snapshot, nil
}

func (f *fakeJira) UpdateFields(_ context.Context, _ string, fields map[string]interface{}) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedFields = fields
	return nil
}

func (f *fakeJira) AddComment(_ context.Context, _ string, body string) error {
	if f.commentErr != nil {
		return f.commentErr
	}
	f.comments = append(f.comments, body)
	return nil
}

type fakeStatusPage struct {
	mu sync.Mutex

	components    []statuspage.Component
	componentsErr error

	incidents        []statuspage.Incident
	listIncidentsErr error

	createReq  *statuspage.IncidentRequest
	createResp *statuspage.Incident
	createErr  error

	updateID   string
	updateReq  *statuspage.IncidentRequest
	updateResp *statuspage.Incident
	updateErr  error

	patches     map[string]string
	patchErrFor map[string]error
}

func (f *fakeStatusPage) ListIncidents(_ context.Context) ([]statuspage.Incident, error) {
	return f.incidents, f.listIncidentsErr
}

func (f *fakeStatusPage) CreateIncident(_ context.Context, req statuspage.IncidentRequest) (*statuspage.Incident, error) {
	f.createReq = &req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResp, nil
}

func (f *fakeStatusPage) UpdateIncident(_ context.Context, id string, req statuspage.IncidentRequest) (*statuspage.Incident, error) {
	f.updateID = id
	f.updateReq = &req
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateResp, nil
}

func (f *fakeStatusPage) PatchComponent(_ context.Context, id string, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.patchErrFor[id]; ok {
		return err
	}
	if f.patches == nil {
		f.patches = make(map[string]string)
	}
	f.patches[id] = status
	return nil
}

func (f *fakeStatusPage) ListComponents(_ context.Context) ([]statuspage.Component, error) {
	return f.components, f.componentsErr
}

type fakeMailer struct {
	sent []*mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg *mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeArchive struct {
	content  []byte
	location string
	err      error
}

func (f *fakeArchive) Put(_ context.Context, content []byte) (string, error) {
	f.content = content
	if f.err != nil {
		return "/var/tmp/im-notices.fallback.log", f.err
	}
	if f.location == "" {
		return "notices/20260901/1504.05_testhost.log", nil
	}
	return f.location, nil
}

type fakePrompt struct {
	answer string
	err    error
	asked  []string
	closed int
}

func (f *fakePrompt) Ask(question string) (string, error) {
	f.asked = append(f.asked, question)
	return f.answer, f.err
}

func (f *fakePrompt) Close() error {
	f.closed++
	return nil
}

// testEnv bundles a workflow wired against fakes plus captured output.
type testEnv struct {
	w       *Workflow
	jira    *fakeJira
	page    *fakeStatusPage
	mailer  *fakeMailer
	archive *fakeArchive
	prompt  *fakePrompt
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

var testUpdated = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func testProjects() *project.Config {
	return &project.Config{
		ResolvedStatus: "Resolved",
		Projects: map[string]project.Project{
			"ABC": {
				Key:            "ABC",
				Cloud:          "SPC",
				DateFormat:     "2006-01-02 15:04 MST",
				StatusPagePage: "pg1",
				IncidentURL:    "https://status.example.com/incidents/",
				ManualIssueTypes: []string{
					"Security",
				},
				Fields: project.FieldIDs{
					CurrentStatus:     "customfield_10001",
					Impact:            "customfield_10002",
					ImpactText:        "customfield_10003",
					ResolutionActions: "customfield_10004",
					Services:          "customfield_10005",
					EscalationLevel:   "customfield_10006",
					ExternalLink:      "customfield_10007",
					ServiceImpact:     "customfield_10008",
					Reason:            "customfield_10011",
				},
				EscalationRecipients: map[string]string{
					"Escalation Level 2": "l2-notices@example.com",
				},
				IncidentStatusMap: map[string]string{
					"Investigating": "investigating",
					"Monitoring":    "monitoring",
					"Resolved":      "resolved",
				},
				ImpactMap: map[string]string{
					"Full Outage":    "major_outage",
					"Partial Outage": "partial_outage",
				},
			},
			"OPS": {
				Key:        "OPS",
				DateFormat: "2006-01-02 15:04 MST",
				// no status page for internal-only tickets
				SkipStatusPage: true,
				Fields: project.FieldIDs{
					CurrentStatus:     "customfield_10001",
					ImpactText:        "customfield_10003",
					ResolutionActions: "customfield_10004",
					EscalationLevel:   "customfield_10006",
				},
				EscalationRecipients: map[string]string{
					"Escalation Level 2": "ops@example.com",
				},
			},
		},
	}
}

func testIssue(key, status string, extra map[string]interface{}) *jira.IssueSnapshot {
	fields := map[string]interface{}{
		"customfield_10001": "Engineers are investigating.",
		"customfield_10003": "API requests may fail.",
		"customfield_10004": "Rolling back the deployment.",
		"customfield_10005": []interface{}{
			map[string]interface{}{"value": "Compute"},
			map[string]interface{}{"value": "Object Storage: Storage"},
		},
		"customfield_10006": map[string]interface{}{"value": "Escalation Level 2"},
		"customfield_10008": map[string]interface{}{"value": "Partial Outage"},
	}
	for k, v := range extra {
		fields[k] = v
	}
	snap := jira.NewSnapshotForTest(key, testUpdated, fields)
	snap.SetDetails("API errors in us-east-1", "Elevated error rates observed.", status, "Incident")
	return snap
}

func testComponents() []statuspage.Component {
	return []statuspage.Component{
		{ID: "grp1", Name: "Storage", GroupID: ""},
		{ID: "c1", Name: "Compute", GroupID: ""},
		{ID: "c2", Name: "Object Storage", GroupID: "grp1"},
	}
}

func newTestEnv(snapshot *jira.IssueSnapshot) *testEnv {
	env := &testEnv{
		jira: &fakeJira{snapshot: snapshot},
		page: &fakeStatusPage{
			components: testComponents(),
			createResp: &statuspage.Incident{ID: "inc42", Status: "investigating"},
			updateResp: &statuspage.Incident{ID: "inc42", Status: "monitoring"},
		},
		mailer:  &fakeMailer{},
		archive: &fakeArchive{},
		prompt:  &fakePrompt{answer: "Y"},
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
	}

	env.w = New(Deps{
		Jira:          env.jira,
		StatusPageFor: func(_ *project.Project) statuspage.Client { return env.page },
		Mailer:        env.mailer,
		Archive:       env.archive,
		Prompt:        env.prompt,
		Clock:         clockwork.NewFakeClockAt(testUpdated),
		Reporter:      &report.Reporter{Out: env.out, Err: env.errOut},
		Logger:        zap.NewNop().Sugar(),
	}, Options{
		Projects: testProjects(),
		Sender:   "notices@example.com",
		JiraURL:  "https://jira.example.com",
	})
	return env
}
