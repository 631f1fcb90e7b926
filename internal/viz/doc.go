// Package viz renders radial profiles and analysis runs in the terminal.
//
//   - [Plot]: asciigraph line chart of one profile
//   - [Summary]: lipgloss summary of an analysis report
//   - [Viewer]: Bubble Tea browser over the profiles of a run
//   - [Projection]: Braille dot map of particle positions
//
// # Key Bindings
//
//	←/→ - Previous/next profile
//	L   - Toggle log10 value axis
//	B   - Toggle bin table
//	Q   - Quit
package viz
