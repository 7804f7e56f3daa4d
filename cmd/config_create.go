package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gotimesheet/config"
)

var (
	configCreatePrint bool
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

If a configuration file is already in use, no new file is written.
With --print the template is written to stdout instead.`,
	Example: `
  # Create default config at $HOME/.gotimesheet.yaml
  gotimesheet config create

  # Create a project-local config
  gotimesheet --configFile ./.gotimesheet.yaml config create

  # Inspect the template without writing
  gotimesheet config create --print
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configCreatePrint {
			_, err := io.WriteString(os.Stdout, config.ExampleYAML())
			return err
		}
		path, created, err := saveDefaultConfig(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("New config file created at: %s\n", path)
		} else {
			fmt.Printf("Config file already exists at: %s\n", path)
		}
		return nil
	},
}

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by gotimesheet.

If no configuration file is active, the command returns an error. The SQLite
database is not touched; use "gotimesheet delete" for that.`,
	Example: `
  # Delete active config
  gotimesheet config delete

  # Delete config at a custom path
  gotimesheet --configFile ./custom-gotimesheet.yaml config delete
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.ConfigFileUsed()
		if path == "" {
			return fmt.Errorf("no configuration file found")
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("error deleting configuration file: %w", err)
		}
		fmt.Printf("Configuration file successfully deleted: %s\n", path)
		return nil
	},
}

// saveDefaultConfig writes the example template to the resolved config path
// unless a file already exists there.
func saveDefaultConfig(configFileFlag, configFileUsed string) (string, bool, error) {
	path, err := resolveConfigEditPath(configFileFlag, configFileUsed)
	if err != nil {
		return "", false, err
	}
	created, err := ensureConfigFileWithTemplate(path)
	if err != nil {
		return "", false, err
	}
	return path, created, nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)
	configCmd.AddCommand(configDeleteCmd)

	configCreateCmd.Flags().BoolVar(&configCreatePrint, "print", false, "Print the template to stdout instead of writing a file")
}
