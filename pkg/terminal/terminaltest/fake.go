// Package terminaltest provides an in-memory terminal for tests.
package terminaltest

import (
	"io"
	"strings"
	"sync"

	"github.com/yaklabco/cheatfind/pkg/terminal"
)

// Fake models a screen of fixed height. Writes land on the cursor row;
// "\r\n" moves to the next row and sticks at the bottom like a scroll.
// Keys queued with Type and Press are returned by ReadKey.
type Fake struct {
	mu sync.Mutex

	height int
	width  int
	col    int
	row    int
	saved  [2]int
	screen map[int]string

	raw       bool
	exitCount int
	cursorErr error

	keys     chan terminal.Key
	keysShut sync.Once
}

var _ terminal.Terminal = (*Fake)(nil)

// New returns a Fake with the cursor in column 1 of startRow.
func New(height, startRow int) *Fake {
	return &Fake{
		height: height,
		col:    1,
		row:    startRow,
		screen: make(map[int]string),
		keys:   make(chan terminal.Key, 64),
	}
}

// SetWidth sets the value reported by Width.
func (f *Fake) SetWidth(width int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.width = width
}

// FailCursorPosition makes CursorPosition return err.
func (f *Fake) FailCursorPosition(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursorErr = err
}

func (f *Fake) EnterRaw() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raw = true
	return nil
}

func (f *Fake) ExitRaw() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.raw {
		f.exitCount++
	}
	f.raw = false
	return nil
}

func (f *Fake) CursorPosition() (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cursorErr != nil {
		return 0, 0, f.cursorErr
	}
	return f.col, f.row, nil
}

func (f *Fake) MoveCursor(col, row int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.col, f.row = col, row
	return nil
}

func (f *Fake) ClearLine() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.screen, f.row)
	return nil
}

func (f *Fake) SaveCursor() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = [2]int{f.col, f.row}
	return nil
}

func (f *Fake) RestoreCursor() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.col, f.row = f.saved[0], f.saved[1]
	return nil
}

func (f *Fake) Write(s string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, part := range strings.Split(s, "\r\n") {
		if i > 0 {
			f.row = min(f.row+1, f.height)
			f.col = 1
		}
		if part != "" {
			f.screen[f.row] += part
			f.col += len(part)
		}
	}
	return nil
}

func (f *Fake) Flush() error { return nil }

func (f *Fake) Width() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width
}

// ReadKey blocks until a key is queued. It returns io.EOF once CloseKeys
// has been called and the queue is drained.
func (f *Fake) ReadKey() (terminal.Key, error) {
	key, ok := <-f.keys
	if !ok {
		return terminal.Key{}, io.EOF
	}
	return key, nil
}

// Line returns the text on row.
func (f *Fake) Line(row int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screen[row]
}

// Cursor returns the cursor column and row.
func (f *Fake) Cursor() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.col, f.row
}

// RawExits counts transitions out of raw mode.
func (f *Fake) RawExits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exitCount
}

// Type queues one rune key per character of text.
func (f *Fake) Type(text string) {
	for _, r := range text {
		f.keys <- terminal.Key{Kind: terminal.KeyRune, Rune: r}
	}
}

// Press queues a key of the given kind.
func (f *Fake) Press(kind terminal.KeyKind) {
	f.keys <- terminal.Key{Kind: kind}
}

// CloseKeys ends the key stream.
func (f *Fake) CloseKeys() {
	f.keysShut.Do(func() { close(f.keys) })
}
