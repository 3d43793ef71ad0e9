// Package analysis extracts summary signals from recorded runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: bounce or oscillation rate of a
//     body along one axis
//   - [NewPhasePortrait]: position against velocity for one body and axis
//   - [SettleTime]: when a body comes to rest
//
// A typical use reads one coordinate out of a result:
//
//	ys := result.Series("box", geom.Y)
//	f := analysis.DominantFrequency(ys, cfg.Dt)
package analysis
