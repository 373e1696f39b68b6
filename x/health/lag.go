// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package health

// Lag is the Lag-Predictor test (§4.C): a ring of the last LagHistorySize
// deltas acts as a bank of predictors, scored by how often the delta at
// lag i matches the current one. The best predictor is whichever lag has
// the highest scoreboard tally (argmax); success_count (total correct
// predictions in the window) and success_run (the current unbroken run
// of correct predictions) track only that single best predictor's
// performance, and are compared against osr-indexed global and local
// cutoffs over a window of LagWindowSize samples.
type Lag struct {
	globalCutoff int64
	localCutoff  int64

	history [LagHistorySize]uint64
	filled  int

	scoreboard    [LagHistorySize]int64
	bestPredictor int
	successCount  int64
	successRun    int64
	windowCount   int64
}

// NewLag returns a Lag-Predictor test configured for the given
// oversampling rate.
func NewLag(osr uint32) *Lag {
	global, local := LagCutoff(osr)
	return &Lag{globalCutoff: global, localCutoff: local}
}

// Feed folds delta into the predictor ring, returning whether the global
// or local cutoff was exceeded. The Lag-Predictor carries a single
// failure severity (§8, errors.go: CodeLag.IsPermanent() is always true),
// so failure and permanent are reported together.
func (l *Lag) Feed(delta uint64) (failure bool) {
	// Score the current best predictor (established by the previous
	// sample's argmax) against this sample before folding delta into the
	// scoreboard and history.
	if l.filled > 0 && l.history[l.bestPredictor] == delta {
		l.successCount++
		l.successRun++
	} else {
		l.successRun = 0
	}

	for i := 0; i < l.filled; i++ {
		if l.history[i] == delta {
			l.scoreboard[i]++
		}
		if l.scoreboard[i] > l.scoreboard[l.bestPredictor] {
			l.bestPredictor = i
		}
	}

	// Shift the ring: newest delta enters at index 0.
	for i := LagHistorySize - 1; i > 0; i-- {
		l.history[i] = l.history[i-1]
	}
	l.history[0] = delta
	if l.filled < LagHistorySize {
		l.filled++
	}

	l.windowCount++
	if l.successCount >= l.globalCutoff || l.successRun >= l.localCutoff {
		failure = true
	}

	if l.windowCount >= LagWindowSize {
		l.resetWindow()
	}

	return failure
}

func (l *Lag) resetWindow() {
	l.windowCount = 0
	l.successCount = 0
	l.successRun = 0
	l.bestPredictor = 0
	for i := range l.scoreboard {
		l.scoreboard[i] = 0
	}
}

// Reset abandons the in-progress window and predictor history.
func (l *Lag) Reset() {
	*l = Lag{globalCutoff: l.globalCutoff, localCutoff: l.localCutoff}
}
