// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jeranaias/stemm-tui/internal/config"
	"github.com/spf13/cobra"
)

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func newConfigCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
		Long: `Show or change the configuration file.

Keys use dot notation, for example audio.volume or reply.model.
The running UI picks up saved changes without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return configShow(cmd, flags)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as TOML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return configShow(cmd, flags)
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, err := loadConfig(flags, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				v, err := cfg.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one value and save the config file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return configSet(cmd, flags, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Overwrite the config file with defaults",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := configFilePath(flags)
				if err != nil {
					return err
				}
				if err := saveConfigFile(config.Default(), path); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s Configuration reset to defaults\n", SuccessStyle.Render("[OK]"))
				fmt.Fprintf(out, "Config file: %s\n", ValueStyle.Render(path))
				return nil
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List every configuration key",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				for _, k := range config.GetAllKeys() {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := configFilePath(flags)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
	)
	return cmd
}

func configShow(cmd *cobra.Command, flags *Flags) error {
	cfg, path, err := loadConfig(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	data, err := config.EncodeTOML(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", path)
	_, err = out.Write(data)
	return err
}

// configSet edits the file on disk. Environment variables and flags are not
// written back, so the file is read without them.
func configSet(cmd *cobra.Command, flags *Flags, key, value string) error {
	path, err := configFilePath(flags)
	if err != nil {
		return err
	}
	cfg, err := readConfigFile(path)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("not saved: %w", err)
	}
	if err := saveConfigFile(cfg, path); err != nil {
		return err
	}

	v, _ := cfg.Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %v\n", SuccessStyle.Render("[OK]"), key, v)
	return nil
}

// configFilePath is --config or the default location.
func configFilePath(flags *Flags) (string, error) {
	if flags.ConfigPath != "" {
		return flags.ConfigPath, nil
	}
	return config.DefaultPath()
}

// readConfigFile decodes path over the defaults. A missing file is the
// defaults.
func readConfigFile(path string) (*config.Config, error) {
	cfg := config.Default()
	var err error
	if strings.HasSuffix(path, ".json") {
		err = config.LoadJSON(cfg, path)
	} else {
		err = config.LoadTOML(cfg, path)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func saveConfigFile(cfg *config.Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}
