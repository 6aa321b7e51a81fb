// Package editor launches the user's text editor.
package editor

import (
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/pmx/internal/errors"
)

// Func opens path in an editor and returns once the editor exits.
// Open is the production implementation; tests substitute their own.
type Func func(path string) error

// Detect returns the editor command line to use.
// Fallback chain: $EDITOR → $VISUAL → nano → vi
func Detect() string {
	if editor := strings.TrimSpace(os.Getenv("EDITOR")); editor != "" {
		return editor
	}
	if visual := strings.TrimSpace(os.Getenv("VISUAL")); visual != "" {
		return visual
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}

// Open runs the detected editor on path attached to the terminal. The
// editor setting may carry arguments, e.g. EDITOR="code --wait".
// Failures are *errors.EditorError.
func Open(path string) error {
	command := Detect()
	fields := strings.Fields(command)

	cmd := exec.Command(fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return &errors.EditorError{Editor: command, Err: err}
	}
	return nil
}

// Edit writes initial to a temporary markdown file, opens it with open and
// returns the saved content. The temporary file is always removed. An
// editor failure is returned as is and no content is produced.
func Edit(open Func, initial string) (string, error) {
	tmp, err := os.CreateTemp("", "pmx-*.md")
	if err != nil {
		return "", errors.Wrap(err, "creating temporary file")
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.WriteString(initial); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "writing temporary file")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "closing temporary file")
	}

	if err := open(name); err != nil {
		return "", err
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", errors.Wrap(err, "reading edited content")
	}
	return string(data), nil
}
