package ingestlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 5, 10, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		File:      "pekao24-2025-05.csv",
		SHA256:    "deadbeef",
		Format:    "pekao24",
		Rows:      42,
		Skipped:   1,
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pekao24-2025-05.csv", entries[0].File)
	assert.Equal(t, 42, entries[0].Rows)
	assert.Equal(t, 1, entries[0].Skipped)
	assert.Equal(t, testTime, entries[0].Timestamp)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.File = "revolut-2025-05.csv"
	e2.SHA256 = "cafebabe"
	e2.Format = "revolut"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "pekao24", entries[0].Format)
	assert.Equal(t, "revolut", entries[1].Format)
}

func TestRead_NoFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestHashes(t *testing.T) {
	dir := t.TempDir()

	hashes, err := Hashes(dir)
	require.NoError(t, err)
	assert.Empty(t, hashes)

	e2 := testEntry()
	e2.SHA256 = "cafebabe"
	require.NoError(t, Append(dir, []Entry{testEntry(), e2}))

	hashes, err = Hashes(dir)
	require.NoError(t, err)
	assert.True(t, hashes["deadbeef"])
	assert.True(t, hashes["cafebabe"])
	assert.False(t, hashes["other"])
}
