// Package clipboard copies profile content to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"

	"github.com/thoreinstein/pmx/internal/errors"
)

// Writer puts text on a clipboard.
type Writer interface {
	WriteText(text string) error
}

// System writes to the operating system clipboard. On Linux it needs
// xclip, xsel or wl-copy on PATH.
type System struct{}

// WriteText implements Writer.
func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard is not supported on this system (install xclip, xsel or wl-clipboard)")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return errors.Wrap(err, "writing to clipboard")
	}
	return nil
}

// Memory records the last text written. It is used where no system
// clipboard is available, such as tests.
type Memory struct {
	Text string
}

// WriteText implements Writer.
func (m *Memory) WriteText(text string) error {
	m.Text = text
	return nil
}
