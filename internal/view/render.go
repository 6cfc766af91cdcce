// Package view renders ad views to a terminal or other writer.
package view

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"adview/internal/format"
	"adview/internal/present"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Options defines the configurable parameters for rendering a view.
type Options struct {
	Format       string
	Wrap         int
	ForceColor   bool
	ForceNoColor bool
	Out          io.Writer
	OutFile      *os.File
}

// Validate rejects contradictory options.
func (o Options) Validate() error {
	if o.ForceColor && o.ForceNoColor {
		return fmt.Errorf("--color and --no-color cannot be used together")
	}
	switch strings.ToLower(o.Format) {
	case "", "text", "table", "plain", "json":
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", o.Format)
	}
}

// Render writes v according to opts.
func Render(v present.View, opts Options) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	formatMode := strings.ToLower(opts.Format)
	if formatMode == "" {
		formatMode = "text"
	}

	switch formatMode {
	case "text":
		useColor := resolveColorChoice(opts)
		width := determineWidth(opts.OutFile, opts.Wrap)
		return writeLines(opts.Out, renderCard(v, width, useColor))
	default:
		return format.WriteView(opts.Out, v, formatMode)
	}
}

func determineWidth(out *os.File, wrap int) int {
	if wrap > 0 {
		return wrap
	}
	if out != nil {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if colsStr := os.Getenv("COLUMNS"); colsStr != "" {
		if v, err := strconv.Atoi(colsStr); err == nil && v > 0 {
			return v
		}
	}
	return 80
}

func writeLines(out io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

const (
	ansiReset     = "\x1b[0m"
	ansiBoldWhite = "\x1b[1;97m"
	ansiMuted     = "\x1b[38;5;245m"
	ansiSeparator = "\x1b[38;5;240m"
	ansiLoading   = "\x1b[38;5;39m"
	ansiError     = "\x1b[38;5;203m"
	ansiCTA       = "\x1b[38;5;220m"
)

func colorize(enabled bool, code string, text string) string {
	if !enabled {
		return text
	}
	return code + text + ansiReset
}

func kindColor(kind present.Kind) string {
	switch kind {
	case present.KindContent:
		return ansiBoldWhite
	case present.KindLoading:
		return ansiLoading
	case present.KindError:
		return ansiError
	default:
		return ansiMuted
	}
}

func resolveColorChoice(opts Options) bool {
	if opts.ForceColor {
		return true
	}
	if opts.ForceNoColor {
		return false
	}
	return shouldUseColorAuto(opts.Out)
}

func shouldUseColorAuto(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
