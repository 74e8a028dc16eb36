// Package integration provides embedded shell integration snippets.
package integration

import (
	"bytes"
	_ "embed"
	"os/exec"
	"path/filepath"
	"text/template"

	"github.com/pkg/errors"
)

// ZshFzf contains the zsh shell integration script with fzf support.
//
//go:embed zsh-fzf.sh
var ZshFzf string

// Script parameterizes the zsh integration.
type Script struct {
	// Shell is the interpreter path used in the shebang.
	Shell string
	// Binary is the dirsize command invoked by the shell function.
	Binary string
	// Count is the number of largest directories offered for selection.
	Count int
}

// Render renders the integration script for binary, offering the count
// largest directories and using the local zsh.
func Render(binary string, count int) (string, error) {
	zsh, err := exec.LookPath("zsh")
	if err != nil {
		return "", errors.Wrap(err, "locating zsh")
	}

	return render(Script{Shell: filepath.ToSlash(zsh), Binary: binary, Count: count})
}

func render(script Script) (string, error) {
	if script.Binary == "" {
		return "", errors.New("missing binary name")
	}

	if script.Count <= 0 {
		return "", errors.Errorf("invalid directory count %d", script.Count)
	}

	tmpl, err := template.New("zsh-fzf").Parse(ZshFzf)
	if err != nil {
		return "", errors.Wrap(err, "parsing zsh template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, script); err != nil {
		return "", errors.Wrap(err, "executing zsh template")
	}

	return buf.String(), nil
}
