package ui

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// DefaultWrap is the column glamour wraps rendered reports at.
const DefaultWrap = 100

// IsStdoutTTY returns true when stdout is connected to a terminal.
func IsStdoutTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// MarkdownWriter collects a markdown document and renders it for the
// terminal on Flush.
//
// With raw set, or when out is not a terminal, writes go straight through
// and Flush does nothing, so piping a report to a file yields plain markdown.
type MarkdownWriter struct {
	out   io.Writer
	buf   bytes.Buffer
	raw   bool
	isTTY bool
	wrap  int
}

// NewMarkdownWriter creates a MarkdownWriter targeting out.
func NewMarkdownWriter(out io.Writer, raw bool) *MarkdownWriter {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &MarkdownWriter{out: out, raw: raw, isTTY: tty, wrap: DefaultWrap}
}

func (m *MarkdownWriter) passthrough() bool {
	return m.raw || !m.isTTY
}

// Write buffers p, or forwards it when rendering is off.
func (m *MarkdownWriter) Write(p []byte) (int, error) {
	if m.passthrough() {
		return m.out.Write(p)
	}
	return m.buf.Write(p)
}

// Flush renders the buffered document. If glamour fails the raw markdown is
// written instead and a note goes to stderr.
func (m *MarkdownWriter) Flush() error {
	if m.passthrough() || m.buf.Len() == 0 {
		return nil
	}
	rendered, err := render(m.buf.String(), m.wrap)
	if err != nil {
		fmt.Fprintln(os.Stderr, Muted.Render("  (markdown rendering failed, showing raw output)"))
		_, werr := m.out.Write(m.buf.Bytes())
		return werr
	}
	_, err = io.WriteString(m.out, rendered)
	return err
}

// RenderMarkdown renders md for terminal output, returning md unchanged on
// any error.
func RenderMarkdown(md string) string {
	out, err := render(md, DefaultWrap)
	if err != nil {
		return md
	}
	return out
}

func render(md string, wrap int) (string, error) {
	style := glamour.WithAutoStyle()
	if !ColorEnabled() {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
