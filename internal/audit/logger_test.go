package audit

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_MasksEmailsAndSetsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf))

	l.Record("note.update_denied", map[string]string{"note_id": "n1", "actor": "mallory@example.com"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, true, line["audit"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "note.update_denied", line["action"])
	assert.Equal(t, "n1", line["note_id"])
	assert.Equal(t, "ma***@example.com", line["actor"])
}

func TestRecord_InfoForSuccess(t *testing.T) {
	var buf bytes.Buffer
	New(zerolog.New(&buf)).Record("user.login", map[string]string{"user_id": "7"})

	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), `"user_id":"7"`)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "***", maskEmail("a@b"))
	assert.Equal(t, "***", maskEmail("no-at-sign"))
	assert.Equal(t, "a***@example.com", maskEmail("a@example.com"))
	assert.Equal(t, "jo***@example.com", maskEmail("john@example.com"))
}
