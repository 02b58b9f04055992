package logger

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	l := NewIsolatedLogger(path)

	l.Info("SessionService", "Session selected", map[string]interface{}{"session_id": "s1"})
	l.Error("MessageService", "Send failed", map[string]interface{}{"error": errors.New("boom")})
	_ = l.Sync()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}

	require.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "SessionService", entries[0]["module"])
	assert.Equal(t, "Session selected", entries[0]["message"])
	assert.Equal(t, "ERROR", entries[1]["level"])
	assert.Contains(t, entries[1], "error")
}

func TestNopLoggerAcceptsNilDetails(t *testing.T) {
	l := NewNopLogger()
	l.Debug("x", "y", nil)
	l.Warn("x", "y", nil)
	assert.NoError(t, l.Sync())
}
