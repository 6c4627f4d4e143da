// Package scatter runs one count query per split with windowed, bounded concurrency and
// sums the partial counts.
//
// Splits are admitted in windows of at most W queries. Every query of a window runs on
// its own goroutine; the calling goroutine waits for the whole window to drain before
// admitting the next one, so no two windows are ever in flight together.
//
// A failed query is fatal to the run. The remaining queries of the failing window are
// still awaited (and cancelled first when cancel-on-failure is enabled), no later window
// is admitted, and the partial total is discarded.
package scatter
