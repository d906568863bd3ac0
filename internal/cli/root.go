// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/stemm-tui/internal/animation"
	"github.com/jeranaias/stemm-tui/internal/audio"
	"github.com/jeranaias/stemm-tui/internal/config"
	"github.com/jeranaias/stemm-tui/internal/frames"
	"github.com/jeranaias/stemm-tui/internal/waveform"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

// Flags holds the persistent flags shared by every command. Set flags win
// over the config file and the environment.
type Flags struct {
	ConfigPath string
	FramesDir  string
	NoAudio    bool
	Seed       int64
	Backend    string
	ASCII      bool
	LogLevel   string
}

// apply copies the flags that were set onto cfg.
func (f *Flags) apply(cfg *config.Config) {
	if f.FramesDir != "" {
		cfg.Frames.Dir = f.FramesDir
	}
	if f.NoAudio {
		cfg.Audio.Enabled = false
	}
	if f.Seed != 0 {
		cfg.Animation.Seed = f.Seed
	}
	if f.Backend != "" {
		cfg.Reply.Backend = f.Backend
	}
	if f.ASCII {
		cfg.UI.ASCIIGlyphs = true
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the stemm command tree. Running it without a
// subcommand starts the terminal UI.
func NewRootCommand() *cobra.Command {
	flags := &Flags{}

	root := &cobra.Command{
		Use:   "stemm",
		Short: "Animated avatar terminal assistant",
		Long: TitleStyle.Render("stemm") + `

A terminal assistant with an animated face. Replies are revealed one
character at a time while the avatar talks, with a tone for each beat.

` + DimStyle.Render("Use 'stemm [command] --help' for more information."),
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureColors()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, "config", "", "config file (default ~/.stemm/config.toml)")
	pf.StringVar(&flags.FramesDir, "frames", "", "directory with idle/, blinking/ and dying/ frame art")
	pf.BoolVar(&flags.NoAudio, "no-audio", false, "disable tones")
	pf.Int64Var(&flags.Seed, "seed", 0, "random seed for blinks and the waveform (0 = clock)")
	pf.StringVar(&flags.Backend, "backend", "", "reply backend: ollama or echo")
	pf.BoolVar(&flags.ASCII, "ascii", false, "draw the waveform with ASCII characters")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newFramesCommand(flags),
		newPreviewCommand(flags),
		newConfigCommand(flags),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command with os.Args and reports errors on stderr.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		return 1
	}
	return 0
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "stemm %s\n", Version)
			fmt.Fprintf(out, "  %s%s\n", RenderLabel("commit"), ValueStyle.Render(GitCommit))
			fmt.Fprintf(out, "  %s%s\n", RenderLabel("built"), ValueStyle.Render(BuildDate))
		},
	}
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig resolves the effective configuration and the file it came from.
// An explicit --config file must load; the default location falls back to
// defaults with a warning on warn.
func loadConfig(flags *Flags, warn io.Writer) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if flags.ConfigPath != "" {
		path = flags.ConfigPath
		if cfg, err = config.LoadFromPath(path); err != nil {
			return nil, "", err
		}
	} else {
		path, _ = config.DefaultPath()
		cfg, err = config.Load()
		if err != nil {
			fmt.Fprintf(warn, "Warning: %v (using defaults)\n", err)
		}
	}

	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// loadFrames returns the configured frame art, or the built-in art.
func loadFrames(cfg *config.Config) (*frames.Repository, error) {
	if cfg.Frames.Dir != "" {
		return frames.LoadDir(cfg.Frames.Dir)
	}
	return frames.Default()
}

// newMachine builds the avatar from cfg.
func newMachine(cfg *config.Config, repo *frames.Repository, emitter audio.Emitter, log zerolog.Logger) (*animation.Machine, error) {
	glyphs := waveform.GlyphsFor(cfg.UI.ASCIIGlyphs, nil)
	return animation.New(repo,
		animation.WithRand(waveform.NewRand(cfg.Animation.Seed)),
		animation.WithEmitter(emitter),
		animation.WithTalkInterval(cfg.Animation.TalkInterval()),
		animation.WithBlinkInterval(cfg.Animation.BlinkInterval()),
		animation.WithBlinkChance(cfg.Animation.BlinkChance),
		animation.WithDyingDuration(cfg.Animation.DyingDuration()),
		animation.WithGlyphs(glyphs),
		animation.WithLogger(log),
	)
}
