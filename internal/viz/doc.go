// Package viz provides an interactive terminal viewer for convergence
// search traces.
//
// [NewTraceModel] returns a Bubble Tea model that replays a
// [convergence.Result] one probe at a time, showing the search bracket
// before and after each probe:
//
//	m := viz.NewTraceModel("inverse", res)
//	_, err := tea.NewProgram(m).Run()
//
// Keys: n/space/right step forward, p/left step back, g/G jump to the
// first/last probe, q quits.
package viz
