// SPDX-License-Identifier: EPL-2.0

package utils

// CubicInterpolate evaluates the Catmull-Rom spline through four consecutive
// samples at position t in [0, 1] between y1 and y2. The curve passes
// through y1 at t = 0 and y2 at t = 1.
func CubicInterpolate(y0, y1, y2, y3, t float32) float32 {
	c1 := 0.5 * (y2 - y0)
	c2 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c3 := 0.5*(y3-y0) + 1.5*(y1-y2)

	return ((c3*t+c2)*t+c1)*t + y1
}
