package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "gocloud.dev/blob/fileblob"
)

var testTime = time.Date(2026, 9, 1, 15, 4, 5, 0, time.UTC)

func TestPutUploadsUnderDatedKey(t *testing.T) {
	bucketDir := t.TempDir()
	clock := clockwork.NewFakeClockAt(testTime)
	store := New("file://"+bucketDir, "notices/", t.TempDir(), clock)

	location, err := store.Put(context.Background(), []byte(`{"subject":"Incident Alert"}`))
	require.NoError(t, err)

	host, herr := os.Hostname()
	if herr != nil {
		host = "localhost"
	}
	assert.Equal(t, "notices/20260901/1504.05_"+host+".log", location)

	content, err := os.ReadFile(filepath.Join(bucketDir, location))
	require.NoError(t, err)
	assert.Equal(t, `{"subject":"Incident Alert"}`, string(content))
}

func TestPutFallsBackToLocalDisk(t *testing.T) {
	fallbackDir := t.TempDir()
	clock := clockwork.NewFakeClockAt(testTime)
	store := New("file:///nonexistent/unwritable/bucket", "notices/", fallbackDir, clock)

	location, err := store.Put(context.Background(), []byte("record"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, UploadErr{}))

	expected := filepath.Join(fallbackDir, "im-notices.20260901-1504.05_localhost.log")
	assert.Equal(t, expected, location)

	content, rerr := os.ReadFile(location)
	require.NoError(t, rerr)
	assert.Equal(t, "record", string(content))
}
