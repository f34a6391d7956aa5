// SPDX-License-Identifier: EPL-2.0

// Package onset finds transients in normalized band series and combines
// them into a cross-band pulse.
//
// A Detector scans one series in order. Frame f is an onset when its value
// is above the mean of the previous Window values times Sensitivity, above
// the value of frame f-1, at least MinLevel, and more than Refractory frames
// after the last onset. The history lives in a fixed ring buffer.
//
// Pulse marks frames where onsets of at least MinBands distinct bands fall
// within Tolerance frames of each other, and scales the result by the run
// maximum.
package onset
