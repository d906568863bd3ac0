// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package frames

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

//go:embed assets
var assets embed.FS

// Required lists the sets the avatar cannot run without.
var Required = []string{Idle, Blinking, Dying}

// Default loads the frames embedded in the binary.
func Default() (*Repository, error) {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		return nil, fmt.Errorf("embedded frames: %w", err)
	}
	return Load(sub)
}

// LoadDir loads frames from a directory on disk.
func LoadDir(dir string) (*Repository, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("frame directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("frame directory %s: not a directory", dir)
	}
	return Load(os.DirFS(dir))
}

// Load reads every required set from fsys. Each set lives in a directory
// named after the state and holds *.txt files ordered by name.
func Load(fsys fs.FS) (*Repository, error) {
	sets := make([]FrameSet, 0, len(Required))
	for _, name := range Required {
		frames, err := readSet(fsys, name)
		if err != nil {
			return nil, err
		}
		sets = append(sets, NewFrameSet(name, frames))
	}
	return NewRepository(sets...)
}

func readSet(fsys fs.FS, name string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("frame set %q: %w: %v", name, ErrNoFrames, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".txt" {
			continue
		}
		files = append(files, e.Name())
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("frame set %q: %w", name, ErrNoFrames)
	}
	sort.Strings(files)

	frames := make([]string, 0, len(files))
	for _, f := range files {
		data, err := fs.ReadFile(fsys, path.Join(name, f))
		if err != nil {
			return nil, fmt.Errorf("frame %s/%s: %w", name, f, err)
		}
		frames = append(frames, normalize(string(data)))
	}
	return frames, nil
}

// normalize converts line endings, composes combining marks so width
// measurement sees one rune per glyph, and drops a single trailing newline.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = norm.NFC.String(s)
	return strings.TrimSuffix(s, "\n")
}
