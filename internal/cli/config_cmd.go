package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/minerator/viewerator/internal/config"
	"github.com/minerator/viewerator/internal/errors"
	"github.com/minerator/viewerator/internal/ui"
	"github.com/spf13/cobra"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the viewerator config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.yaml",
	Long: `Write config.yaml with the default settings into the config directory
(~/.viewerator unless -c is given). An existing file is only replaced after
confirmation, or with --force.

Examples:
  viewerator config init
  viewerator config init --force
  viewerator -c /etc/viewerator config init`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInit(cmd.OutOrStdout(), configDir, configInitForce, confirmOverwrite)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration the dashboard would use: config.yaml merged
with defaults and VIEWERATOR_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShow(cmd.OutOrStdout(), configDir)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config without asking")
}

// confirmFunc asks the user a yes/no question.
type confirmFunc func(title string) (bool, error)

// confirmOverwrite asks with a huh confirm form.
func confirmOverwrite(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Try running with --force to overwrite")
	}
	return ok, nil
}

// configInit writes the default config into dir.
func configInit(out io.Writer, dir string, force bool, confirm confirmFunc) error {
	dir = config.ExpandTilde(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create config directory "+dir,
			"Check permissions, or point --config_dir somewhere writable.")
	}

	path := config.FilePath(dir)
	if _, err := os.Stat(path); err == nil && !force {
		ok, err := confirm(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Wrote %s\n", ui.SuccessStyle.Render(ui.SymbolSuccess), path)
	return nil
}

// configShow prints the merged config of dir as YAML, preceded by a short
// description of the file it came from.
func configShow(out io.Writer, dir string) error {
	path := config.FilePath(dir)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if info, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "# %s (%s, modified %s)\n", path,
			humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
	} else {
		fmt.Fprintf(out, "# %s does not exist, showing defaults\n", path)
	}
	fmt.Fprintf(out, "# log_window reads the last %s of the minerator log\n",
		humanize.Bytes(uint64(cfg.LogWindow)))

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(out, "# %s %s\n", ui.ErrorStyle.Render(ui.SymbolFail), errors.OneLine(err))
	}

	data, err := config.Encode(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
