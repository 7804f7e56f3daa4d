package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gotimesheet/config"
)

const defaultConfigName = ".gotimesheet.yaml"

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active gotimesheet config file in your editor.

Editor selection order:
1) $VISUAL
2) $EDITOR
3) vi

If no config file exists yet, this command creates one with an example template first.
After the editor exits, the content is validated as gotimesheet YAML config and
the resulting holiday calendar is checked, including calendar.holiday_file.`,
	Example: `
  # Edit active config
  gotimesheet config edit

  # Edit with a specific editor
  EDITOR="code --wait" gotimesheet config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, created, err := saveDefaultConfig(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No config file found. Created example config at: %s\n", path)
		}

		editor, err := buildEditorCommand(resolveEditorValue(os.Getenv("VISUAL"), os.Getenv("EDITOR")), path)
		if err != nil {
			return err
		}
		editor.Stdin = os.Stdin
		editor.Stdout = os.Stdout
		editor.Stderr = os.Stderr
		if err := editor.Run(); err != nil {
			return fmt.Errorf("opening editor failed: %w", err)
		}

		holidays, err := validateConfigFile(path)
		if err != nil {
			return err
		}
		fmt.Printf("Configuration saved and validated: %s (%d holidays)\n", path, holidays)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configEditCmd)
}

// validateConfigFile checks the YAML at path and returns the number of
// holidays the resulting calendar locks.
func validateConfigFile(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading edited config failed: %w", err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return 0, fmt.Errorf("config validation failed in %s: %w", path, err)
	}
	policy, err := cfg.Policy()
	if err != nil {
		return 0, fmt.Errorf("holiday calendar invalid in %s: %w", path, err)
	}
	return len(policy.Holidays()), nil
}

// resolveConfigEditPath prefers the --configFile flag, then the file viper
// loaded, then $HOME/.gotimesheet.yaml.
func resolveConfigEditPath(configFileFlag, configFileUsed string) (string, error) {
	for _, candidate := range []string{configFileFlag, configFileUsed} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, defaultConfigName), nil
}

func ensureConfigFileWithTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("creating example config failed: %w", err)
	}
	return true, nil
}

func resolveEditorValue(visual, editor string) string {
	for _, candidate := range []string{visual, editor} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

func buildEditorCommand(editorValue, configPath string) (*exec.Cmd, error) {
	fields := strings.Fields(editorValue)
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}
	return exec.Command(fields[0], append(fields[1:], configPath)...), nil
}
