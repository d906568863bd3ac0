// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package frames provides the pre-authored text frames used by the avatar.
//
// Frames are grouped into named FrameSets, one per animation state that uses
// canned art (idle, blinking, dying). A Repository is built once at startup
// and handed to the animation state machine; it is never mutated afterwards.
//
// # Layout
//
// A frame source is any fs.FS laid out as one directory per state:
//
//	idle/00_idle.txt
//	blinking/00_half.txt
//	blinking/01_closed.txt
//	dying/00_dead.txt
//
// Files are ordered by name. A built-in set is embedded in the binary and is
// used when no frame directory is configured.
//
// # Usage
//
//	repo, err := frames.Default()
//	if err != nil {
//	    return err // missing frames are a fatal configuration error
//	}
//	idle, _ := repo.Get(frames.Idle)
package frames
