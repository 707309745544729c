package terminal

import (
	"bufio"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// KeyKind classifies a key event.
type KeyKind int

const (
	KeyOther KeyKind = iota
	KeyRune
	KeyBackspace
	KeyInterrupt
	KeyEnter
	KeyUp
	KeyDown
)

func (k KeyKind) String() string {
	switch k {
	case KeyRune:
		return "rune"
	case KeyBackspace:
		return "backspace"
	case KeyInterrupt:
		return "interrupt"
	case KeyEnter:
		return "enter"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	default:
		return "other"
	}
}

// Key is a decoded key event. Rune is set only for KeyRune.
type Key struct {
	Kind KeyKind
	Rune rune
}

const (
	ctrlC     = 0x03
	ctrlH     = 0x08
	escape    = 0x1b
	del       = 0x7f
	carriage  = '\r'
	lineFeed  = '\n'
	ss3Prefix = 'O'
)

// DecodeKey reads one key event from r, which should be fed by a terminal
// in raw mode. Escape sequences are only decoded when their bytes have
// already arrived together with the escape; a lone escape is KeyOther.
func DecodeKey(r *bufio.Reader) (Key, error) {
	ch, _, err := r.ReadRune()
	if err != nil {
		return Key{}, err
	}

	switch {
	case ch == ctrlC:
		return Key{Kind: KeyInterrupt}, nil
	case ch == del || ch == ctrlH:
		return Key{Kind: KeyBackspace}, nil
	case ch == carriage || ch == lineFeed:
		return Key{Kind: KeyEnter}, nil
	case ch == escape:
		return decodeEscape(r)
	case ch == unicode.ReplacementChar:
		return Key{Kind: KeyOther}, nil
	case unicode.IsPrint(ch):
		return Key{Kind: KeyRune, Rune: ch}, nil
	default:
		return Key{Kind: KeyOther}, nil
	}
}

// decodeEscape consumes the escape sequence that follows an escape byte,
// as far as it has already been buffered.
func decodeEscape(r *bufio.Reader) (Key, error) {
	if r.Buffered() == 0 {
		return Key{Kind: KeyOther}, nil
	}

	pending, err := r.Peek(r.Buffered())
	if err != nil {
		return Key{}, err
	}
	buf := append([]byte{escape}, pending...)
	seq, _, n, _ := ansi.DecodeSequence(buf, ansi.NormalState, nil)
	if _, err := r.Discard(n - 1); err != nil {
		return Key{}, err
	}

	var final byte
	switch {
	case ansi.HasCsiPrefix(seq):
		final = seq[len(seq)-1]
	case len(seq) == 2 && seq[1] == ss3Prefix:
		// SS3 decodes as a two byte escape; the key is the next byte.
		if r.Buffered() == 0 {
			return Key{Kind: KeyOther}, nil
		}
		if final, err = r.ReadByte(); err != nil {
			return Key{}, err
		}
	}

	switch final {
	case 'A':
		return Key{Kind: KeyUp}, nil
	case 'B':
		return Key{Kind: KeyDown}, nil
	default:
		return Key{Kind: KeyOther}, nil
	}
}
