package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/modelstore/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the app with args and returns what it wrote to its writer.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"modelstore", "--log-level", "error"}, args...))
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestCommands(t *testing.T) {
	for _, backend := range []string{"badger", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			db := []string{"--db", filepath.Join(t.TempDir(), "db"), "--backend", backend}

			out, err := run(t, append(db, "seed")...)
			require.NoError(t, err)
			assert.Equal(t, "inserted 8 threads\n", out)

			out, err = run(t, append(db, "count")...)
			require.NoError(t, err)
			assert.Equal(t, "8\n", out)

			out, err = run(t, append(db, "count", "--collection", "jobs")...)
			require.NoError(t, err)
			assert.Equal(t, "0\n", out)

			out, err = run(t, append(db, "list")...)
			require.NoError(t, err)
			listed := lines(out)
			require.Len(t, listed, 8)

			uniqueID := strings.Split(listed[0], "\t")[0]
			out, err = run(t, append(db, "get", uniqueID)...)
			require.NoError(t, err)
			assert.Contains(t, out, uniqueID)
			assert.Contains(t, out, "kind:")

			out, err = run(t, append(db, "search", "strawberries")...)
			require.NoError(t, err)
			assert.Len(t, lines(out), 1)

			out, err = run(t, append(db, "remove-all", "--instantiate")...)
			require.NoError(t, err)
			assert.Equal(t, "removed all "+storage.ThreadCollection+"\n", out)

			out, err = run(t, append(db, "count")...)
			require.NoError(t, err)
			assert.Equal(t, "0\n", out)
		})
	}
}

func TestSeedFromFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "drafts.txt")
	require.NoError(t, os.WriteFile(src, []byte("first draft\n\nsecond draft\n"), 0644))
	db := []string{"--db", filepath.Join(t.TempDir(), "db"), "--batch-size", "1"}

	out, err := run(t, append(db, "seed", "--src", src)...)
	require.NoError(t, err)
	assert.Equal(t, "inserted 2 threads\n", out)

	out, err = run(t, append(db, "search", "draft")...)
	require.NoError(t, err)
	assert.Len(t, lines(out), 2)
}

func TestGetMissing(t *testing.T) {
	db := []string{"--db", filepath.Join(t.TempDir(), "db")}

	_, err := run(t, append(db, "get", "missing")...)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = run(t, append(db, "get")...)
	assert.Error(t, err)
}

func TestFlagErrors(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")

	t.Run("database path is required", func(t *testing.T) {
		_, err := run(t, "count")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database path")
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := run(t, "--db", dir, "--backend", "postgres", "count")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres")
	})

	t.Run("unknown collection", func(t *testing.T) {
		_, err := run(t, "--db", dir, "count", "--collection", "messages")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "messages")
	})

	t.Run("invalid log level", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}
		err := app.Run([]string{"modelstore", "--log-level", "loud", "bio"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("search query is required", func(t *testing.T) {
		_, err := run(t, "--db", dir, "search")
		assert.Error(t, err)
	})
}

func TestBioCommand(t *testing.T) {
	out, err := run(t, "bio", "--text", "  hello  ", "--emoji", "\U0001F600\U0001F603")
	require.NoError(t, err)
	assert.Equal(t, "\U0001F600 hello\n", out)
}

func TestVerifyCommand(t *testing.T) {
	db := []string{"--db", filepath.Join(t.TempDir(), "db"), "--backend", "sqlite"}

	_, err := run(t, append(db, "seed")...)
	require.NoError(t, err)

	out, err := run(t, append(db, "verify", "--report-interval", "3")...)
	require.NoError(t, err)
	assert.Equal(t, storage.ThreadCollection+": 8 readable, 0 unreadable\n", out)

	out, err = run(t, append(db, "verify", "--collection", "jobs")...)
	require.NoError(t, err)
	assert.Equal(t, storage.JobRecordCollection+": 0 readable, 0 unreadable\n", out)
}
