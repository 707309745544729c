// Package terminal provides the small set of terminal capabilities the
// search session needs: raw mode, cursor control, and key events.
package terminal

import "errors"

// ErrMalformedCursorReport is returned when the terminal's answer to a
// cursor position request cannot be parsed.
var ErrMalformedCursorReport = errors.New("malformed cursor position report")

// Terminal is the capability layer consumed by the session renderer and
// input reader. Rows and columns are 1-based.
//
// Output methods may buffer; Flush makes pending output visible.
type Terminal interface {
	// EnterRaw switches the device to raw mode.
	EnterRaw() error
	// ExitRaw restores the mode saved by EnterRaw. It is a no-op when raw
	// mode is not active.
	ExitRaw() error

	// CursorPosition asks the terminal where the cursor is.
	CursorPosition() (col, row int, err error)
	MoveCursor(col, row int) error
	ClearLine() error
	SaveCursor() error
	RestoreCursor() error

	// Write emits text at the cursor.
	Write(s string) error
	Flush() error

	// Width returns the number of columns, or 0 when unknown.
	Width() int

	// ReadKey blocks until the next key event.
	ReadKey() (Key, error)
}
