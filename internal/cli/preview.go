// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/stemm-tui/internal/animation"
	"github.com/jeranaias/stemm-tui/internal/audio"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// =============================================================================
// PREVIEW COMMAND
// =============================================================================

type previewOptions struct {
	state  string
	count  int
	width  int
	height int
	step   time.Duration
}

func newPreviewCommand(flags *Flags) *cobra.Command {
	opts := previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print avatar frames without starting the UI",
		Long: `Render the avatar in one state on a simulated clock and print each
frame. Useful for checking custom frame art and timing settings.

The clock advances by --step between frames, so the output is the same on
every run for a fixed --seed.`,
		Example: `  stemm preview --state talking --count 5
  stemm preview --state dying --step 500ms --width 30 --height 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, flags, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.state, "state", "talking", "state to render: idle, talking, blinking, dying")
	f.IntVar(&opts.count, "count", 3, "number of frames to print")
	f.IntVar(&opts.width, "width", 0, "panel width (default: terminal width)")
	f.IntVar(&opts.height, "height", 0, "panel height (default: terminal height)")
	f.DurationVar(&opts.step, "step", 100*time.Millisecond, "simulated time between frames")
	return cmd
}

func runPreview(cmd *cobra.Command, flags *Flags, opts previewOptions) error {
	state, err := animation.ParseState(opts.state)
	if err != nil {
		return err
	}
	if opts.count < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", opts.count)
	}
	if opts.step <= 0 {
		return fmt.Errorf("--step must be positive, got %s", opts.step)
	}

	termW, termH := GetTerminalSize()
	if opts.width <= 0 {
		opts.width = termW
	}
	if opts.height <= 0 {
		// Leave room for the separator and the caption.
		opts.height = max(termH-2, 1)
	}

	cfg, _, err := loadConfig(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	repo, err := loadFrames(cfg)
	if err != nil {
		return err
	}
	machine, err := newMachine(cfg, repo, audio.Nop{}, zerolog.Nop())
	if err != nil {
		return err
	}

	now := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	machine.SetState(state)

	out := cmd.OutOrStdout()
	for i := 0; i < opts.count; i++ {
		frame := machine.Render(opts.width, opts.height, now)
		caption := fmt.Sprintf("frame %d  t=%s  %s", i, time.Duration(i)*opts.step, frame.State)
		fmt.Fprintln(out, RenderSeparator(min(opts.width, 70)))
		fmt.Fprintln(out, DimStyle.Render(caption))
		fmt.Fprintln(out, strings.Join(frame.Lines, "\n"))
		now = now.Add(opts.step)
	}
	return nil
}
