// Package viz renders a running scene in the terminal with Bubble Tea.
//
// The view is a side projection: X runs left to right and Y bottom to top.
// Each box is drawn as an outline on a braille [Canvas]; the selected body is
// filled.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N / . - Single step while paused
//	R     - Rebuild the scene from its source
//	Tab   - Select next body
//	Arrows / HJKL - Push the selected body
//	Q     - Quit
package viz
