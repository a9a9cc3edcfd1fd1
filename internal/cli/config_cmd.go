package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/hxblog/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage configuration",
		Annotations: map[string]string{skipAppAnnotation: "true"},
	}
	cmd.AddCommand(newConfigGenerateCmd())
	cmd.AddCommand(newConfigCheckCmd())
	return cmd
}

// writeMode selects how `config generate` treats an existing file.
type writeMode int

const (
	writeCreate writeMode = iota
	writeOverwrite
	writeUpdate
)

func newConfigGenerateCmd() *cobra.Command {
	var (
		out       string
		overwrite bool
		update    bool
	)
	cmd := &cobra.Command{
		Use:         "generate",
		Short:       "Generate a default config.toml",
		Annotations: map[string]string{skipAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := writeCreate
			switch {
			case overwrite && update:
				return fmt.Errorf("choose either --overwrite or --update")
			case overwrite:
				mode = writeOverwrite
			case update:
				mode = writeUpdate
			}
			if out == "" {
				out = config.DefaultConfigPath()
			}
			return writeConfigFile(cmd, out, mode)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path for config.toml")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing config (keeps a backup)")
	cmd.Flags().BoolVar(&update, "update", false, "add missing keys to an existing config (keeps a backup)")
	return cmd
}

func newConfigCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "check",
		Short:       "Validate the resolved configuration",
		Annotations: map[string]string{skipAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := getConfig(cmd)
			if err := config.CheckConfigValidity(v); err != nil {
				return fmt.Errorf("invalid configuration:\n%w", err)
			}
			src := v.ConfigFileUsed()
			if src == "" {
				src = "defaults"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config OK (%s)\n", src)
			return nil
		},
	}
}

func writeConfigFile(cmd *cobra.Command, out string, mode writeMode) error {
	w := cmd.OutOrStdout()
	existing, err := os.ReadFile(out)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		existing = nil
	case err != nil:
		return err
	case mode == writeCreate:
		return fmt.Errorf("config already exists at %s; pass --overwrite to replace it or --update to add missing keys", out)
	}

	content := config.RenderDefaultTOML()
	if mode == writeUpdate && existing != nil {
		updated, changed := config.UpdateTOML(string(existing))
		if !changed {
			_, _ = fmt.Fprintf(w, "Config already up to date: %s\n", out)
			return nil
		}
		content = updated
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o700); err != nil {
		return err
	}
	if existing != nil {
		backup, err := writeBackup(out, existing)
		if err != nil {
			return err
		}
		defer func() { _, _ = fmt.Fprintf(w, "Backup: %s\n", backup) }()
	}
	if err := os.WriteFile(out, []byte(content), 0o600); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Wrote %s\n", out)
	return nil
}

// writeBackup stores data next to path as .bak, or a timestamped .bak when
// one already exists.
func writeBackup(path string, data []byte) (string, error) {
	backup := path + ".bak"
	if _, err := os.Stat(backup); err == nil {
		backup = fmt.Sprintf("%s.bak-%s", path, time.Now().Format("20060102-150405"))
	}
	if err := os.WriteFile(backup, data, 0o600); err != nil {
		return "", fmt.Errorf("backup config: %w", err)
	}
	return backup, nil
}
