// Package tldr builds a corpus from the tldr-pages archive.
package tldr

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"

	"github.com/yaklabco/cheatfind/pkg/corpus"
	"github.com/yaklabco/cheatfind/pkg/fsutil"
)

// DefaultURL is the tldr-pages master archive.
const DefaultURL = "https://github.com/tldr-pages/tldr/archive/master.tar.gz"

const (
	// Dir is the corpus subdirectory the updater owns.
	Dir = "tldr"

	// CommonPlatform is the page folder shared by every platform.
	CommonPlatform = "common"

	lockName    = ".update.lock"
	pagesFolder = "pages"
	pageExt     = ".md"
	maxPageSize = 1 << 20
)

// ErrUpdateInProgress is returned when another process holds the update lock.
var ErrUpdateInProgress = errors.New("another tldr update is in progress")

// PlatformForGOOS maps a GOOS value to its tldr page folder. It returns ""
// when tldr has no folder for the system.
func PlatformForGOOS(goos string) string {
	switch goos {
	case "linux":
		return "linux"
	case "darwin", "freebsd", "netbsd", "openbsd", "dragonfly":
		return "osx"
	default:
		return ""
	}
}

// DefaultPlatform is the page folder for the running system.
func DefaultPlatform() string {
	return PlatformForGOOS(runtime.GOOS)
}

// Updater downloads the tldr archive and rewrites the tldr corpus files.
type Updater struct {
	// URL of the gzipped tar archive. Defaults to DefaultURL.
	URL string

	// Root is the corpus directory; files are written under Root/tldr.
	Root string

	// Platform selects the page folder kept next to "common". Empty keeps
	// only common pages.
	Platform string

	// Client performs the download. Defaults to a client that honours the
	// proxy environment variables.
	Client *http.Client

	Logger *log.Logger
}

// Stats summarises an update.
type Stats struct {
	// Pages is the number of pages parsed.
	Pages int

	// Records is the number of records written.
	Records int

	// Files are the corpus files that were replaced.
	Files []string
}

// Update downloads the archive and atomically replaces
// Root/tldr/common.commands and Root/tldr/<platform>.commands. Existing
// files are left untouched when the download or parse fails.
func (u *Updater) Update(ctx context.Context) (*Stats, error) {
	logger := u.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	dir := filepath.Join(u.Root, Dir)
	if err := os.MkdirAll(dir, fsutil.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	lock := flock.New(filepath.Join(dir, lockName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire update lock: %w", err)
	}
	if !locked {
		return nil, ErrUpdateInProgress
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Debug("release update lock", "error", err)
		}
	}()

	body, err := u.download(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	outputs, err := u.createOutputs(dir)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, out := range outputs {
			out.Abort()
		}
	}()

	stats, err := u.extract(ctx, body, outputs, logger)
	if err != nil {
		return nil, err
	}

	for _, folder := range []string{CommonPlatform, u.Platform} {
		out, ok := outputs[folder]
		if !ok {
			continue
		}
		if err := out.Commit(); err != nil {
			return nil, fmt.Errorf("write %s: %w", out.Path(), err)
		}
		stats.Files = append(stats.Files, out.Path())
	}

	logger.Debug("tldr update finished", "pages", stats.Pages, "records", stats.Records)
	return stats, nil
}

func (u *Updater) download(ctx context.Context) (io.ReadCloser, error) {
	url := u.URL
	if url == "" {
		url = DefaultURL
	}
	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}

// createOutputs opens one pending corpus file per kept folder.
func (u *Updater) createOutputs(dir string) (map[string]*fsutil.AtomicFile, error) {
	outputs := make(map[string]*fsutil.AtomicFile, 2)
	for _, folder := range []string{CommonPlatform, u.Platform} {
		if folder == "" {
			continue
		}
		if _, ok := outputs[folder]; ok {
			continue
		}
		out, err := fsutil.CreateAtomic(filepath.Join(dir, folder+corpus.DefaultExtension), 0)
		if err != nil {
			for _, created := range outputs {
				created.Abort()
			}
			return nil, err
		}
		outputs[folder] = out
	}
	return outputs, nil
}

func (u *Updater) extract(
	ctx context.Context,
	archive io.Reader,
	outputs map[string]*fsutil.AtomicFile,
	logger *log.Logger,
) (*Stats, error) {
	gz, err := gzip.NewReader(archive)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	pages := newPageParser()
	stats := &Stats{}
	tr := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("update cancelled: %w", err)
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		out, ok := outputs[pageFolder(hdr.Name)]
		if !ok {
			continue
		}

		source, err := io.ReadAll(io.LimitReader(tr, maxPageSize))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", hdr.Name, err)
		}

		records := pages.Parse(source)
		for _, rec := range records {
			if _, err := out.WriteString(string(rec) + "\n"); err != nil {
				return nil, err
			}
		}
		stats.Pages++
		stats.Records += len(records)
		logger.Debug("parsed page", "page", hdr.Name, "records", len(records))
	}
}

// pageFolder returns the folder of an archive entry shaped like
// */pages/<folder>/<name>.md, or "" for any other entry.
func pageFolder(name string) string {
	if path.Ext(name) != pageExt {
		return ""
	}
	folderDir := path.Dir(name)
	if path.Base(path.Dir(folderDir)) != pagesFolder {
		return ""
	}
	return path.Base(folderDir)
}
