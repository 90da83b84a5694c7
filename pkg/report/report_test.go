package report

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestReporterStreams(t *testing.T) {
	color.NoColor = true

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	r := &Reporter{Out: out, Err: errOut}

	r.OK("Email", "Sent. %s", "250 OK")
	r.Fail("statuspage.io", "invalid link")
	r.Warn("JIRA", "preview is stale")

	assert.Equal(t, " ✓  Email: Sent. 250 OK\n", out.String())
	assert.Equal(t, " ✕  statuspage.io: invalid link\n →  JIRA: preview is stale\n", errOut.String())
}
