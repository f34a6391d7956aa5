// SPDX-License-Identifier: EPL-2.0

// Package formats wires the individual decoders together.
//
// NewRegistry maps file extensions to the native decoders in the sub
// packages. Opener adds content sniffing, so a mislabelled file still
// reaches the right decoder, and an optional ffmpeg fallback for
// containers that have no native decoder:
//
//	opener := formats.NewOpener(&ffmpeg.Decoder{})
//	src, err := opener.Open(ctx, "track.m4a")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
// Every failure to recognise the input matches audio.ErrUnsupportedFormat.
package formats
