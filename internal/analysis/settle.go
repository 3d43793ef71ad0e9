package analysis

import "github.com/san-kum/boxsim/internal/sim"

// SettleTime returns the time of the first frame after which body never
// again moves faster than threshold. ok is false if the body is still moving
// in the last frame or never appears.
func SettleTime(result *sim.Result, body string, threshold float64) (t float64, ok bool) {
	for i := len(result.Frames) - 1; i >= 0; i-- {
		b, found := result.Frames[i].Body(body)
		if !found {
			continue
		}
		if b.Velocity.Len() > threshold {
			return t, ok
		}
		t, ok = result.Frames[i].Time, true
	}
	return t, ok
}
