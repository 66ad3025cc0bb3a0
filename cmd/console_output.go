package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
)

var levelColors = map[string]string{
	"error": "[red]",
	"warn":  "[yellow]",
	"info":  "[green]",
	"debug": "[blue]",
	"trace": "[dark_gray]",
}

// consoleEvent holds the fields zako attaches to its log events.
type consoleEvent struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Script  string `json:"script"`
	Kind    string `json:"kind"`
	Error   string `json:"error"`
}

// consoleWriter renders zerolog JSON events as one colored line per event,
// prefixed with the script they belong to. Error chains follow indented.
type consoleWriter struct {
	out      io.Writer
	colorize colorstring.Colorize
	lock     sync.Mutex
}

func newConsoleWriter(out io.Writer, color bool) *consoleWriter {
	return &consoleWriter{
		out: out,
		colorize: colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !color,
			Reset:   true,
		},
	}
}

func (w *consoleWriter) Write(p []byte) (int, error) {
	var evt consoleEvent
	if err := json.NewDecoder(bytes.NewReader(p)).Decode(&evt); err != nil {
		return 0, eris.Wrapf(err, "cannot decode event: %s", p)
	}

	var line strings.Builder
	line.WriteString(levelColors[evt.Level])
	if evt.Script != "" {
		line.WriteString(shortPath(evt.Script))
		if evt.Kind != "" {
			line.WriteString(" (" + evt.Kind + ")")
		}
		line.WriteString(": ")
	}
	line.WriteString(evt.Message)
	if evt.Error != "" {
		for _, detail := range strings.Split(strings.TrimRight(evt.Error, "\n"), "\n") {
			line.WriteString("\n  " + detail)
		}
	}
	line.WriteString("\n")

	w.lock.Lock()
	defer w.lock.Unlock()

	if _, err := io.WriteString(w.out, w.colorize.Color(line.String())); err != nil {
		return 0, err
	}
	return len(p), nil
}

func shortPath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	if abs, err := filepath.Abs("."); err == nil {
		if rel, err := filepath.Rel(abs, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}
