package action

import "testing"

func TestSearchStepWrapsAroundToFindMatch(t *testing.T) {
	f := newFixture(t)
	ag := f.ctx.Agents["agent-1"]
	seedLines(t, ag, "needle here", "nothing", "more nothing")

	cur := f.dispatcher.cursorFor(ag.ID, ag)
	cur.row = 1

	f.dispatcher.handleSearchSubmit("needle", true)

	if cur.row != 0 {
		t.Fatalf("expected search to wrap back to row 0, got row %d", cur.row)
	}
}

func TestSearchStepNoMatchLeavesCursorPut(t *testing.T) {
	f := newFixture(t)
	ag := f.ctx.Agents["agent-1"]
	seedLines(t, ag, "alpha", "beta")

	cur := f.dispatcher.cursorFor(ag.ID, ag)
	cur.row = 0

	f.dispatcher.handleSearchSubmit("zzz-nowhere", true)

	if cur.row != 0 {
		t.Fatalf("expected cursor unchanged when no match exists, got row %d", cur.row)
	}
}
