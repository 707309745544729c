package corpus

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// maxLineSize bounds a single corpus line. Longer lines are dropped and
// reading continues with the next line.
const maxLineSize = 1 << 20

const readBufferSize = 64 * 1024

// Scanner walks a corpus directory once and streams every line of every
// matching file.
type Scanner struct {
	// Root is the directory to walk.
	Root string

	// Extension is the file extension (with leading dot) that marks corpus
	// files. Defaults to DefaultExtension.
	Extension string

	// Logger receives debug output about skipped entries. Optional.
	Logger *log.Logger
}

// NewScanner creates a Scanner for root using the default extension.
func NewScanner(root string) *Scanner {
	return &Scanner{Root: root, Extension: DefaultExtension}
}

// Scan sends each line of each corpus file under Root to out, in walk
// order and line order, then closes out.
//
// Unreadable directories and files are skipped. Scan returns early only
// when ctx is cancelled; out is closed on every path.
func (s *Scanner) Scan(ctx context.Context, out chan<- Record) error {
	defer close(out)

	logger := s.logger()
	ext := s.Extension
	if ext == "" {
		ext = DefaultExtension
	}

	root := s.Root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	var files, lines int
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			logger.Debug("skipping unreadable entry", "path", path, "error", walkErr)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() || filepath.Ext(path) != ext {
			return nil
		}
		if !isRegularFile(path, entry) {
			return nil
		}

		n, err := s.scanFile(ctx, path, out)
		lines += n
		files++
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			logger.Debug("skipping rest of file", "path", path, "error", err)
		}
		return nil
	})

	logger.Debug("corpus scan finished", "root", s.Root, "files", files, "lines", lines)

	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return err
	}
	// The root itself may be missing; that is an empty corpus, not a failure.
	return nil
}

// scanFile streams the lines of a single file and reports how many were sent.
func (s *Scanner) scanFile(ctx context.Context, path string, out chan<- Record) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return streamLines(ctx, file, out, s.logger().With("path", path))
}

// streamLines sends each line of r to out. Lines longer than maxLineSize or
// not valid UTF-8 are logged and dropped.
func streamLines(ctx context.Context, r io.Reader, out chan<- Record, logger *log.Logger) (int, error) {
	reader := bufio.NewReaderSize(r, readBufferSize)

	var (
		line      []byte
		oversized bool
		lineNo    int
		sent      int
	)
	for {
		chunk, err := reader.ReadSlice('\n')
		if !oversized && len(line)+len(chunk) > maxLineSize {
			oversized = true
			line = line[:0]
		}
		if !oversized {
			line = append(line, chunk...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return sent, err
		}
		atEOF := err != nil
		if atEOF && len(line) == 0 && !oversized {
			return sent, nil
		}

		lineNo++
		text := bytes.TrimSuffix(bytes.TrimSuffix(line, []byte("\n")), []byte("\r"))
		switch {
		case oversized:
			logger.Debug("skipping oversized line", "line", lineNo)
		case !utf8.Valid(text):
			logger.Debug("skipping line with invalid UTF-8", "line", lineNo)
		default:
			select {
			case out <- Record(text):
				sent++
			case <-ctx.Done():
				return sent, ctx.Err()
			}
		}

		if atEOF {
			return sent, nil
		}
		line = line[:0]
		oversized = false
	}
}

// isRegularFile reports whether entry is a regular file or a symlink to one.
func isRegularFile(path string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (s *Scanner) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.New(io.Discard)
}
