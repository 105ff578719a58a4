package compositor

import "time"

// CheckOutputReflow is called on every data event for paneId with the
// pane's current content height. If the height jumped by more than the
// pane's own height, the pane enters the reflowing state (spec.md §4.3.3):
// a silence timer (adaptive, 70-120ms) and a max timer (adaptive,
// 350-800ms) are started. A small subsequent delta while already
// reflowing resets the silence timer but not the max timer, bounding how
// long a continuously-churning child can stay in the reflow state.
func (c *Compositor) CheckOutputReflow(paneID string, newHeight int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ps := c.state(paneID)
	delta := newHeight - ps.LastContentHeight
	if delta < 0 {
		delta = -delta
	}
	ps.LastContentHeight = newHeight

	triggering := delta > ps.paneHeight && ps.paneHeight > 0
	if triggering {
		now := c.now()
		ps.clearEvents = append(ps.clearEvents, now)
		ps.clearEvents = pruneClearEvents(ps.clearEvents, now, c.cpsWindow())
	}

	switch {
	case triggering && ps.ReflowPhase == ReflowIdlePhase:
		ps.ReflowPhase = ReflowingPhase
		c.armReflowTimersLocked(paneID, ps)
	case ps.ReflowPhase == ReflowingPhase:
		c.resetSilenceTimerLocked(paneID, ps)
	}
}

func (c *Compositor) now() time.Time {
	if c.clock != nil {
		return c.clock()
	}
	return time.Now()
}

func (c *Compositor) cpsWindow() time.Duration {
	ms := c.Tuning.CPSWindowMs
	if ms <= 0 {
		ms = DefaultCPSWindowMs
	}
	return time.Duration(ms) * time.Millisecond
}

func pruneClearEvents(events []time.Time, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	i := 0
	for ; i < len(events); i++ {
		if events[i].After(cutoff) {
			break
		}
	}
	return events[i:]
}

// adaptiveDurations scales the silence and max timer durations between
// their configured min/max bounds based on recent clear-event frequency:
// a churn rate at or above churnCeiling clears/sec saturates both timers
// at their max bound, so a rapidly repainting child gets the longest
// settle window.
const churnCeiling = 5.0 // clears/sec

func (c *Compositor) adaptiveDurations(ps *PaneState) (silence, maxDur time.Duration) {
	window := c.cpsWindow()
	rate := float64(len(ps.clearEvents)) / window.Seconds()
	frac := rate / churnCeiling
	if frac > 1 {
		frac = 1
	}
	if frac < 0 {
		frac = 0
	}

	silenceMin, silenceMax := c.Tuning.SilenceMinMs, c.Tuning.SilenceMaxMs
	if silenceMax <= 0 {
		silenceMin, silenceMax = DefaultSilenceMinMs, DefaultSilenceMaxMs
	}
	maxMin, maxMax := c.Tuning.MaxMinMs, c.Tuning.MaxMaxMs
	if maxMax <= 0 {
		maxMin, maxMax = DefaultMaxMinMs, DefaultMaxMaxMs
	}

	silenceMs := float64(silenceMin) + frac*float64(silenceMax-silenceMin)
	maxMs := float64(maxMin) + frac*float64(maxMax-maxMin)
	return time.Duration(silenceMs) * time.Millisecond, time.Duration(maxMs) * time.Millisecond
}

func (c *Compositor) armReflowTimersLocked(paneID string, ps *PaneState) {
	silence, maxDur := c.adaptiveDurations(ps)
	ps.silenceTimer = time.AfterFunc(silence, func() { c.exitReflow(paneID) })
	ps.maxTimer = time.AfterFunc(maxDur, func() { c.exitReflow(paneID) })
}

func (c *Compositor) resetSilenceTimerLocked(paneID string, ps *PaneState) {
	silence, _ := c.adaptiveDurations(ps)
	if ps.silenceTimer != nil {
		ps.silenceTimer.Stop()
	}
	ps.silenceTimer = time.AfterFunc(silence, func() { c.exitReflow(paneID) })
}

// exitReflow transitions paneId back to idle and snapshots its stable
// content height. Called by whichever timer (silence or max) fires first;
// the loser's Stop is a harmless no-op against an already-fired timer.
func (c *Compositor) exitReflow(paneID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ps, ok := c.panes[paneID]
	if !ok || ps.ReflowPhase != ReflowingPhase {
		return
	}
	ps.ReflowPhase = ReflowIdlePhase
	ps.StableContentHeight = ps.LastContentHeight
	if ps.silenceTimer != nil {
		ps.silenceTimer.Stop()
	}
	if ps.maxTimer != nil {
		ps.maxTimer.Stop()
	}
}

// IsReflowing reports whether paneId is currently in the reflowing state.
func (c *Compositor) IsReflowing(paneID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state(paneID).ReflowPhase == ReflowingPhase
}
