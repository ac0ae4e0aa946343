package popup

// Curve maps linear progress in [0, 1] to eased progress.
type Curve func(float64) float64

// Linear applies no easing.
func Linear(t float64) float64 { return t }

// EaseInOut matches CSS ease-in-out.
var EaseInOut = CubicBezier(0.42, 0, 0.58, 1)

// CubicBezier returns a curve equivalent to CSS cubic-bezier(x1, y1, x2, y2).
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		// x(u) is monotonic for control points in [0, 1], so bisection is enough.
		lo, hi := 0.0, 1.0
		u := t
		for i := 0; i < 24; i++ {
			x := bezier(x1, x2, u)
			if x < t {
				lo = u
			} else {
				hi = u
			}
			u = (lo + hi) / 2
		}
		return bezier(y1, y2, u)
	}
}

func bezier(p1, p2, u float64) float64 {
	inv := 1 - u
	return 3*inv*inv*u*p1 + 3*inv*u*u*p2 + u*u*u
}
