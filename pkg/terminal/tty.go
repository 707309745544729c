package terminal

import (
	"bufio"
	"fmt"
	"os"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// controllingTTY is the device opened by Open.
const controllingTTY = "/dev/tty"

// maxReportSize bounds how many bytes are read while waiting for a
// cursor position report.
const maxReportSize = 64

// TTY implements Terminal on top of a pair of files using ANSI escape
// sequences.
type TTY struct {
	in     *os.File
	out    *os.File
	owned  bool
	reader *bufio.Reader
	writer *bufio.Writer
	state  *term.State
}

// New creates a TTY that reads keys from in and draws on out.
func New(in, out *os.File) *TTY {
	return &TTY{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
		writer: bufio.NewWriter(out),
	}
}

// Open uses the controlling terminal so that stdout stays free for the
// program's own output. When there is no controlling terminal it falls
// back to stdin and stdout.
func Open() (*TTY, error) {
	tty, err := os.OpenFile(controllingTTY, os.O_RDWR, 0)
	if err != nil {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, fmt.Errorf("open %s: %w", controllingTTY, err)
		}
		return New(os.Stdin, os.Stdout), nil
	}

	t := New(tty, tty)
	t.owned = true
	return t, nil
}

// Close releases the device if Open created it. Raw mode is left alone;
// callers pair EnterRaw with ExitRaw.
func (t *TTY) Close() error {
	if !t.owned {
		return nil
	}
	return t.in.Close()
}

// Output returns the file the TTY draws on.
func (t *TTY) Output() *os.File {
	return t.out
}

// EnterRaw implements Terminal.
func (t *TTY) EnterRaw() error {
	if t.state != nil {
		return nil
	}
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	t.state = state
	return nil
}

// ExitRaw implements Terminal.
func (t *TTY) ExitRaw() error {
	if t.state == nil {
		return nil
	}
	state := t.state
	t.state = nil
	if err := term.Restore(int(t.in.Fd()), state); err != nil {
		return fmt.Errorf("exit raw mode: %w", err)
	}
	return nil
}

// CursorPosition implements Terminal. The terminal must be in raw mode so
// the report can be read without waiting for a newline.
func (t *TTY) CursorPosition() (int, int, error) {
	if err := t.Write(ansi.RequestCursorPositionReport); err != nil {
		return 0, 0, err
	}
	if err := t.Flush(); err != nil {
		return 0, 0, err
	}

	var report []byte
	for len(report) < maxReportSize {
		b, err := t.reader.ReadByte()
		if err != nil {
			return 0, 0, fmt.Errorf("read cursor report: %w", err)
		}
		report = append(report, b)
		if b == 'R' {
			return parseCursorReport(report)
		}
	}
	return 0, 0, fmt.Errorf("%w: no terminator in %q", ErrMalformedCursorReport, report)
}

// parseCursorReport finds the last "CSI row ; col R" sequence in report.
// Bytes around it, such as keys typed while the report was pending, are
// ignored.
func parseCursorReport(report []byte) (int, int, error) {
	parser := ansi.NewParser()
	col, row := 0, 0
	for rest := report; len(rest) > 0; {
		seq, _, n, _ := ansi.DecodeSequence(rest, ansi.NormalState, parser)
		rest = rest[n:]

		cmd := ansi.Cmd(parser.Command())
		if !ansi.HasCsiPrefix(seq) || cmd.Final() != 'R' || cmd.Prefix() != 0 {
			continue
		}
		r, rowOK := parser.Param(0, 0)
		c, colOK := parser.Param(1, 0)
		if rowOK && colOK && len(parser.Params()) == 2 {
			col, row = c, r
		}
	}

	if row < 1 || col < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedCursorReport, report)
	}
	return col, row, nil
}

// MoveCursor implements Terminal.
func (t *TTY) MoveCursor(col, row int) error {
	return t.Write(ansi.CursorPosition(col, row))
}

// ClearLine implements Terminal.
func (t *TTY) ClearLine() error {
	return t.Write(ansi.EraseEntireLine)
}

// SaveCursor implements Terminal.
func (t *TTY) SaveCursor() error {
	return t.Write(ansi.SaveCursor)
}

// RestoreCursor implements Terminal.
func (t *TTY) RestoreCursor() error {
	return t.Write(ansi.RestoreCursor)
}

// Write implements Terminal.
func (t *TTY) Write(s string) error {
	if _, err := t.writer.WriteString(s); err != nil {
		return fmt.Errorf("write terminal: %w", err)
	}
	return nil
}

// Flush implements Terminal.
func (t *TTY) Flush() error {
	if err := t.writer.Flush(); err != nil {
		return fmt.Errorf("flush terminal: %w", err)
	}
	return nil
}

// Width implements Terminal.
func (t *TTY) Width() int {
	width, _, err := term.GetSize(int(t.out.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// ReadKey implements Terminal.
func (t *TTY) ReadKey() (Key, error) {
	return DecodeKey(t.reader)
}
