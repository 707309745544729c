package tldr_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cheatfind/pkg/tldr"
)

type archiveEntry struct {
	name    string
	content string
	dir     bool
}

func buildArchive(t *testing.T, entries []archiveEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, entry := range entries {
		hdr := &tar.Header{Name: entry.name, Mode: 0o644, Size: int64(len(entry.content)), Typeflag: tar.TypeReg}
		if entry.dir {
			hdr = &tar.Header{Name: entry.name, Mode: 0o755, Typeflag: tar.TypeDir}
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !entry.dir {
			_, err := tw.Write([]byte(entry.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func serveArchive(t *testing.T, archive []byte) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/gzip")
		_, _ = w.Write(archive)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func testArchive(t *testing.T) []byte {
	t.Helper()

	return buildArchive(t, []archiveEntry{
		{name: "tldr-main/", dir: true},
		{name: "tldr-main/README.md", content: "- Not a page:\n\n`nope`\n"},
		{name: "tldr-main/pages/common/", dir: true},
		{name: "tldr-main/pages/common/tar.md", content: tarPage},
		{name: "tldr-main/pages/common/ls.md", content: "# ls\n\n- List files:\n\n`ls`\n"},
		{name: "tldr-main/pages/linux/apt.md", content: "# apt\n\n- Install a package:\n\n`apt install {{pkg}}`\n"},
		{name: "tldr-main/pages/osx/brew.md", content: "# brew\n\n- Install a formula:\n\n`brew install {{formula}}`\n"},
		{name: "tldr-main/pages.de/common/ls.md", content: "# ls\n\n- Dateien auflisten:\n\n`ls`\n"},
		{name: "tldr-main/pages/common/notes.txt", content: "`ignored`\n"},
	})
}

func TestUpdater_Update(t *testing.T) {
	t.Parallel()

	srv := serveArchive(t, testArchive(t))
	root := t.TempDir()

	updater := &tldr.Updater{URL: srv.URL, Root: root, Platform: "linux", Client: srv.Client()}
	stats, err := updater.Update(context.Background())
	require.NoError(t, err)

	common := filepath.Join(root, tldr.Dir, "common.commands")
	linux := filepath.Join(root, tldr.Dir, "linux.commands")

	assert.Equal(t, 3, stats.Pages)
	assert.Equal(t, 4, stats.Records)
	assert.Equal(t, []string{common, linux}, stats.Files)

	assert.Equal(t,
		"tar cf {{path/to/target.tar}} {{path/to/file1}} ## [c]reate an archive and write it to a [f]ile\n"+
			"tar xvf {{path/to/source.tar[.gz|.bz2|.xz]}} ## E[x]tract a (compressed) archive file into the current directory\n"+
			"ls ## List files\n",
		readFile(t, common))
	assert.Equal(t, "apt install {{pkg}} ## Install a package\n", readFile(t, linux))

	_, err = os.Stat(filepath.Join(root, tldr.Dir, "osx.commands"))
	assert.True(t, os.IsNotExist(err))
}

func TestUpdater_CommonOnly(t *testing.T) {
	t.Parallel()

	srv := serveArchive(t, testArchive(t))
	root := t.TempDir()

	stats, err := (&tldr.Updater{URL: srv.URL, Root: root, Client: srv.Client()}).Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Pages)
	assert.Len(t, stats.Files, 1)
}

func TestUpdater_FailedDownloadKeepsCorpus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	root := t.TempDir()
	existing := filepath.Join(root, tldr.Dir, "common.commands")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0o755))
	require.NoError(t, os.WriteFile(existing, []byte("ls ## list\n"), 0o644))

	_, err := (&tldr.Updater{URL: srv.URL, Root: root, Platform: "linux", Client: srv.Client()}).Update(context.Background())
	require.ErrorContains(t, err, "404")
	assert.Equal(t, "ls ## list\n", readFile(t, existing))

	entries, err := os.ReadDir(filepath.Dir(existing))
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp.")
	}
}

func TestUpdater_CorruptArchive(t *testing.T) {
	t.Parallel()

	srv := serveArchive(t, []byte("not gzip"))
	root := t.TempDir()

	_, err := (&tldr.Updater{URL: srv.URL, Root: root, Client: srv.Client()}).Update(context.Background())
	require.ErrorContains(t, err, "gzip")

	_, statErr := os.Stat(filepath.Join(root, tldr.Dir, "common.commands"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpdater_LockHeld(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, tldr.Dir)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	// flock locks are per open file description, so a second handle
	// conflicts even inside one process.
	held := flock.New(filepath.Join(dir, ".update.lock"))
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	t.Cleanup(func() { _ = held.Unlock() })

	_, err = (&tldr.Updater{URL: "http://127.0.0.1:0", Root: root}).Update(context.Background())
	require.ErrorIs(t, err, tldr.ErrUpdateInProgress)
}
