package view

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"adview/internal/present"

	"github.com/mattn/go-isatty"
)

const ansiClearScreen = "\x1b[H\x1b[2J"

// Stream renders a sequence of views to the same output. On a terminal in
// text mode each view replaces the previous one. Elsewhere views are
// separated by a blank line.
type Stream struct {
	mu    sync.Mutex
	opts  Options
	count int
}

// NewStream returns a Stream writing with opts.
func NewStream(opts Options) *Stream {
	return &Stream{opts: opts}
}

// Write renders v after the views written before it.
func (s *Stream) Write(v present.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := s.opts
	if opts.Out == nil {
		opts.Out = os.Stdout
		if opts.OutFile != nil {
			opts.Out = opts.OutFile
		}
	}

	if s.count > 0 || s.redraws() {
		sep := "\n"
		if s.redraws() {
			sep = ansiClearScreen
		}
		if _, err := fmt.Fprint(opts.Out, sep); err != nil {
			return err
		}
	}
	s.count++
	return Render(v, opts)
}

func (s *Stream) redraws() bool {
	mode := strings.ToLower(s.opts.Format)
	if mode != "" && mode != "text" {
		return false
	}
	return s.opts.OutFile != nil && isatty.IsTerminal(s.opts.OutFile.Fd())
}
