// Tests for the SQLite dictionary backend.
package sqlite

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// attachTemp attaches a backend to a fresh data directory and detaches it
// when the test ends.
func attachTemp(t *testing.T, strategy string) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      dir,
		SyncStrategy: strategy,
	}))
	t.Cleanup(func() { _ = b.Detach() })
	return b, dir
}

func readTerms(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "terms.txt"))
	require.NoError(t, err)
	return string(data)
}

func addFourTerms(t *testing.T, b *Backend) {
	t.Helper()
	require.NoError(t, b.Add("Moti", "Azran"))
	require.NoError(t, b.Add("Shoval", "Weitzman"))
	require.NoError(t, b.Add("Amit", "Azran"))
	require.NoError(t, b.Add("Orit", "Abisdris"))
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend(nil)
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	err := b.Attach(config)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	for _, name := range []string{"lexicon.db", "terms.txt"} {
		if _, err := os.Stat(filepath.Join(tmpDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	// Verify double attach fails
	err = b.Attach(config)
	if err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}

	b.Detach()
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend(nil)
	err := b.Attach(types.Config{Backend: "postgres", DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	err = b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir(), SyncStrategy: "sometimes"})
	assert.ErrorIs(t, err, types.ErrSyncStrategyUnknown)
}

func TestBackend_AttachMalformedTermsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "terms.txt"), []byte("good,1\nbad line\n"), 0o644))

	b := NewBackend(nil)
	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir})
	require.ErrorIs(t, err, types.ErrInvalidFormat)

	// The backend stays detached and the file is untouched.
	assert.ErrorIs(t, b.Add("x", "y"), types.ErrDetached)
	assert.Equal(t, "good,1\nbad line\n", readTerms(t, dir))
}

func TestBackend_Detach(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	tmpDir := t.TempDir()
	b := NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}))
	require.NoError(t, b.Add("k", "v"))

	err := b.Detach()
	if err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	// Verify idempotent
	err = b.Detach()
	if err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	// Verify operations fail after detach
	assert.ErrorIs(t, b.Add("a", "b"), types.ErrDetached)
	assert.ErrorIs(t, b.Update("k", "b"), types.ErrDetached)
	assert.ErrorIs(t, b.Remove("k"), types.ErrDetached)
	_, err = b.Lookup("k")
	assert.ErrorIs(t, err, types.ErrDetached)
	_, err = b.Search("k")
	assert.ErrorIs(t, err, types.ErrDetached)
	assert.ErrorIs(t, b.Import(strings.NewReader("")), types.ErrDetached)
	assert.ErrorIs(t, b.Export(&bytes.Buffer{}), types.ErrDetached)
	assert.False(t, b.Contains("k"))
	assert.Zero(t, b.Len())
	for range b.All() {
		t.Error("detached backend yielded an entry")
	}
}

func TestBackend_OperationsAndOrder(t *testing.T) {
	b, dir := attachTemp(t, "")
	addFourTerms(t, b)

	var got []string
	for e := range b.All() {
		got = append(got, e.Term)
	}
	assert.Equal(t, []string{"Amit", "Moti", "Orit", "Shoval"}, got)
	assert.Equal(t, 4, b.Len())

	err := b.Add("Moti", "Azran")
	assert.ErrorIs(t, err, types.ErrTermExists)
	assert.Contains(t, err.Error(), "Moti")

	err = b.Remove("Eli")
	assert.ErrorIs(t, err, types.ErrTermNotFound)
	assert.Contains(t, err.Error(), "Eli")

	require.NoError(t, b.Update("Orit", "Azran"))
	require.NoError(t, b.Remove("Shoval"))

	e, err := b.Lookup("Orit")
	require.NoError(t, err)
	assert.Equal(t, "Azran", e.Explanation)
	assert.True(t, b.Contains("Amit"))
	assert.False(t, b.Contains("Shoval"))

	// Immediate strategy keeps the terms file current.
	assert.Equal(t, "Amit,Azran\nMoti,Azran\nOrit,Azran\n", readTerms(t, dir))
}

func TestBackend_InvalidValuesDoNotTouchStorage(t *testing.T) {
	b, dir := attachTemp(t, "")
	require.NoError(t, b.Add("a", "1"))

	assert.ErrorIs(t, b.Add("x,y", "1"), types.ErrInvalidTerm)
	assert.ErrorIs(t, b.Add("", "1"), types.ErrInvalidTerm)
	assert.ErrorIs(t, b.Update("a", "two\nlines"), types.ErrInvalidExplanation)
	assert.ErrorIs(t, b.Update("missing", "x"), types.ErrTermNotFound)

	results, err := b.Search("")
	require.NoError(t, err)
	assert.Equal(t, []types.Entry{{Term: "a", Explanation: "1"}}, results)
	assert.Equal(t, "a,1\n", readTerms(t, dir))
}

func TestBackend_PersistsAcrossAttach(t *testing.T) {
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend(nil)
	require.NoError(t, b.Attach(config))
	addFourTerms(t, b)
	require.NoError(t, b.Detach())

	b2 := NewBackend(nil)
	require.NoError(t, b2.Attach(config))
	defer b2.Detach()

	assert.Equal(t, 4, b2.Len())
	e, err := b2.Lookup("Shoval")
	require.NoError(t, err)
	assert.Equal(t, "Weitzman", e.Explanation)

	// The rebuilt database serves search.
	results, err := b2.Search("azran")
	require.NoError(t, err)
	assert.Equal(t, []types.Entry{
		{Term: "Amit", Explanation: "Azran"},
		{Term: "Moti", Explanation: "Azran"},
	}, results)
}

func TestBackend_OnCloseDefersWrites(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir, SyncStrategy: types.SyncOnClose}))

	require.NoError(t, b.Add("late", "write"))
	assert.Empty(t, readTerms(t, dir), "on_close must not write before Detach")

	require.NoError(t, b.Detach())
	assert.Equal(t, "late,write\n", readTerms(t, dir))
}

func TestBackend_Search(t *testing.T) {
	b, _ := attachTemp(t, "")
	require.NoError(t, b.Add("TCP", "Transmission Control Protocol"))
	require.NoError(t, b.Add("UDP", "User Datagram Protocol"))
	require.NoError(t, b.Add("100%", "complete"))
	require.NoError(t, b.Add("snake_case", "words_joined"))
	require.NoError(t, b.Add("camelCase", "wordsJoined"))

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "explanation substring", text: "protocol", want: []string{"TCP", "UDP"}},
		{name: "term substring ignores case", text: "tcp", want: []string{"TCP"}},
		{name: "percent is literal", text: "%", want: []string{"100%"}},
		{name: "underscore is literal", text: "_", want: []string{"snake_case"}},
		{name: "no match", text: "zzz", want: nil},
		{name: "empty matches all", text: "", want: []string{"100%", "TCP", "UDP", "camelCase", "snake_case"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := b.Search(tt.text)
			require.NoError(t, err)
			var got []string
			for _, e := range results {
				got = append(got, e.Term)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBackend_Import(t *testing.T) {
	b, dir := attachTemp(t, "")
	require.NoError(t, b.Add("old", "entry"))

	require.NoError(t, b.Import(strings.NewReader("Shoval,Weitzman\nAmit,Azran\n")))

	assert.False(t, b.Contains("old"))
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, "Amit,Azran\nShoval,Weitzman\n", readTerms(t, dir))

	results, err := b.Search("")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestBackend_ImportIsAllOrNothing(t *testing.T) {
	b, dir := attachTemp(t, "")
	addFourTerms(t, b)
	before := readTerms(t, dir)

	err := b.Import(strings.NewReader("new,1\nnew,2\n"))
	require.ErrorIs(t, err, types.ErrInvalidFormat)
	assert.ErrorIs(t, err, types.ErrTermExists)

	assert.Equal(t, 4, b.Len())
	assert.False(t, b.Contains("new"))
	assert.Equal(t, before, readTerms(t, dir))

	results, err := b.Search("")
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestBackend_Export(t *testing.T) {
	b, _ := attachTemp(t, "")
	addFourTerms(t, b)

	var buf bytes.Buffer
	require.NoError(t, b.Export(&buf))
	assert.Equal(t, "Amit,Azran\nMoti,Azran\nOrit,Abisdris\nShoval,Weitzman\n", buf.String())
}

func TestBackend_DatabaseRebuiltFromTermsFile(t *testing.T) {
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend(nil)
	require.NoError(t, b.Attach(config))
	require.NoError(t, b.Add("stale", "row"))
	require.NoError(t, b.Detach())

	// Edit the source of truth directly; the next Attach must follow it.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "terms.txt"), []byte("fresh,row\n"), 0o644))

	require.NoError(t, b.Attach(config))
	defer b.Detach()

	results, err := b.Search("row")
	require.NoError(t, err)
	assert.Equal(t, []types.Entry{{Term: "fresh", Explanation: "row"}}, results)
}

// blockTermsFile replaces terms.txt with a non-empty directory so that the
// atomic rename onto it fails. The returned func restores a writable path.
func blockTermsFile(t *testing.T, dir string) func() {
	t.Helper()
	path := filepath.Join(dir, "terms.txt")
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "occupied"), 0o755))
	return func() {
		require.NoError(t, os.RemoveAll(path))
	}
}

func searchAll(t *testing.T, b *Backend) []types.Entry {
	t.Helper()
	results, err := b.Search("")
	require.NoError(t, err)
	return results
}

func TestBackend_FailedPersistLeavesDictionaryUnchanged(t *testing.T) {
	b, dir := attachTemp(t, "")
	require.NoError(t, b.Add("Orit", "Abisdris"))
	want := []types.Entry{{Term: "Orit", Explanation: "Abisdris"}}

	tests := []struct {
		name string
		op   func() error
	}{
		{name: "add", op: func() error { return b.Add("Moti", "Azran") }},
		{name: "update", op: func() error { return b.Update("Orit", "Azran") }},
		{name: "remove", op: func() error { return b.Remove("Orit") }},
		{name: "import", op: func() error { return b.Import(strings.NewReader("Amit,Azran\n")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore := blockTermsFile(t, dir)

			err := tt.op()
			require.ErrorIs(t, err, types.ErrIO)
			assert.Contains(t, err.Error(), "terms.txt")

			assert.Equal(t, want, slices.Collect(b.All()), "memory must be rolled back")
			assert.Equal(t, want, searchAll(t, b), "database must be rolled back")

			// The same call succeeds once the file is writable again.
			restore()
			require.NoError(t, tt.op())
			require.NoError(t, b.Import(strings.NewReader("Orit,Abisdris\n")))
		})
	}
}

func TestBackend_RetryAfterFailedAdd(t *testing.T) {
	b, dir := attachTemp(t, "")

	restore := blockTermsFile(t, dir)
	require.Error(t, b.Add("Moti", "Azran"))
	assert.False(t, b.Contains("Moti"))
	restore()

	require.NoError(t, b.Add("Moti", "Azran"), "retry must not report a duplicate")
	require.NoError(t, b.Detach())
	assert.Equal(t, "Moti,Azran\n", readTerms(t, dir))
}
