// SPDX-License-Identifier: EPL-2.0

// Package normalize rescales whole-file series into [0, 1].
//
// Normalization needs the global minimum and maximum of a series, so it
// only runs once every frame has been analysed.
//
// Plain min-max scaling turns any series into a full scale one, including a
// sustained tone whose energy only jitters by a fraction of a percent. Scale
// guards against that with a noise floor relative to the loudest value of
// the file.
package normalize
