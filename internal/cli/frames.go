// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/stemm-tui/internal/compositor"
	"github.com/jeranaias/stemm-tui/internal/frames"
	"github.com/spf13/cobra"
)

// =============================================================================
// FRAMES COMMAND
// =============================================================================

func newFramesCommand(flags *Flags) *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "frames",
		Short: "List the avatar frame sets",
		Long: `List the frame sets the avatar would use, with the number of frames
in each and the size of the largest frame.

With --show every frame is printed as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			repo, err := loadFrames(cfg)
			if err != nil {
				return err
			}

			source := "built-in"
			if cfg.Frames.Dir != "" {
				source = cfg.Frames.Dir
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, TitleStyle.Render("Frame sets"))
			fmt.Fprintf(out, "%s%s\n\n", RenderLabel("Source"), ValueStyle.Render(source))

			for _, name := range repo.Names() {
				set, _ := repo.Get(name)
				w, h := setSize(set)
				fmt.Fprintf(out, "%s%s\n", RenderLabel(name),
					ValueStyle.Render(fmt.Sprintf("%d frames, %dx%d", set.Len(), w, h)))
			}

			if show {
				for _, name := range repo.Names() {
					set, _ := repo.Get(name)
					for i, frame := range set.Frames() {
						fmt.Fprintln(out)
						fmt.Fprintln(out, SectionStyle.Render(fmt.Sprintf("%s %d", name, i)))
						fmt.Fprintln(out, RenderSeparator())
						fmt.Fprintln(out, frame)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "print every frame")
	return cmd
}

// setSize returns the bounding box of the largest frame in set.
func setSize(set frames.FrameSet) (width, height int) {
	for _, frame := range set.Frames() {
		w, h := compositor.Measure(strings.Split(frame, "\n"))
		width = max(width, w)
		height = max(height, h)
	}
	return width, height
}
