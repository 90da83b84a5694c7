package jira

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotCustomFields(t *testing.T) {
	snap := NewSnapshotForTest("SCI-100", time.Now(), map[string]interface{}{
		"customfield_10001": "All hands on deck",
		"customfield_10006": map[string]interface{}{"value": "Escalation Level 2"},
		"customfield_10005": []interface{}{
			map[string]interface{}{"value": "Compute"},
			map[string]interface{}{"value": "Object Storage"},
		},
		"customfield_bogus": 42,
	})

	assert.Equal(t, "All hands on deck", snap.StringField("customfield_10001"))
	assert.Equal(t, "", snap.StringField("customfield_bogus"))
	assert.Equal(t, "", snap.StringField(""))

	assert.Equal(t, "Escalation Level 2", snap.OptionValue("customfield_10006"))
	assert.Equal(t, "", snap.OptionValue("customfield_10001"))

	assert.Equal(t, []string{"Compute", "Object Storage"}, snap.OptionValues("customfield_10005"))
	assert.Nil(t, snap.OptionValues("customfield_10001"))
}

func TestErrorMatching(t *testing.T) {
	err := error(NotFoundErr{Err: errors.New("404")})
	assert.True(t, errors.Is(err, NotFoundErr{}))
	assert.False(t, errors.Is(err, TransportErr{}))

	err = TransportErr{Err: errors.New("connection reset")}
	assert.True(t, errors.Is(err, TransportErr{}))
	assert.Equal(t, "connection reset", err.Error())
}
