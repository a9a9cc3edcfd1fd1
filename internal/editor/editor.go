package editor

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const TitlePrefix = "Title: "

// ComposeContent creates the text presented to the editor.
func ComposeContent(title, body string) string {
	var b bytes.Buffer
	b.WriteString("# hxblog post\n")
	b.WriteString("# Lines starting with '#' above the separator are ignored.\n")
	b.WriteString("# Set the Title, then write the Markdown body after '---'.\n")
	b.WriteString(TitlePrefix)
	b.WriteString(title)
	b.WriteString("\n---\n")
	if body != "" {
		if !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		b.WriteString(body)
	}
	return b.String()
}

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// PathFor returns a temp file path for editing the named draft, e.g. "new"
// or a post id.
func PathFor(name string) (string, error) {
	file := name + ".hxblog.md"
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "hxblog", file), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "hxblog", "edit", file), nil
}

func writeFile0600(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, fs.FileMode(0o600))
}

// OpenAt opens the editor at path with initial content and returns final bytes and whether it changed.
func OpenAt(path string, initial []byte) (final []byte, changed bool, err error) {
	if err := writeFile0600(path, initial); err != nil {
		return nil, false, err
	}
	// Honor VISUAL/EDITOR including flags by running via a shell wrapper.
	ed := os.Getenv("VISUAL")
	if ed == "" {
		ed = os.Getenv("EDITOR")
	}
	var cmd *exec.Cmd
	if strings.TrimSpace(ed) != "" {
		cmd = exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
		cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
	} else {
		prog, err := PreferredEditor()
		if err != nil {
			return nil, false, err
		}
		cmd = exec.Command(prog, path)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, err
	}
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, initial), nil
}

// ParseEdited extracts title and body from the editor output. Comment lines
// are only skipped in the header, so Markdown headings in the body survive.
func ParseEdited(s string) (title, body string) {
	inBody := false
	var bodyLines []string
	for _, line := range strings.Split(s, "\n") {
		if inBody {
			bodyLines = append(bodyLines, line)
			continue
		}
		switch {
		case strings.HasPrefix(strings.TrimSpace(line), "#"):
		case strings.HasPrefix(line, strings.TrimSpace(TitlePrefix)):
			title = strings.TrimSpace(strings.TrimPrefix(line, strings.TrimSpace(TitlePrefix)))
		case strings.TrimSpace(line) == "---":
			inBody = true
		}
	}
	return title, strings.TrimSpace(strings.Join(bodyLines, "\n"))
}
