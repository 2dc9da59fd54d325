package tui

import (
	"strings"
	"testing"

	"planboard-cli/internal/model"
)

func boardModules() []model.Module {
	return []model.Module{
		{ID: "m1", Name: "Auth", Status: model.StatusPending, EstimatedDays: 5},
		{ID: "m2", Name: "Billing", Status: model.StatusPending},
		{ID: "m3", Name: "Search", Status: model.StatusInProgress},
		{ID: "m4", Name: "Legacy", Status: "archived"},
	}
}

func TestBoardView_RendersStatusColumns(t *testing.T) {
	plainOutput(t)
	v := newBoardView(boardModules(), fixedNow)
	v.width, v.height = 100, 12

	out := v.View()
	for _, want := range []string{"Pending (2)", "In Progress (1)", "Completed (0)", "On Hold (0)", "Auth", "5d", "Search", "(empty)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in board:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Legacy") {
		t.Fatalf("expected unknown status to stay off the board:\n%s", out)
	}
}

func TestBoardView_DragTargetsWrapAndReleaseGoesIdle(t *testing.T) {
	v := newBoardView(boardModules(), fixedNow)

	if err := v.pickUp(); err != nil {
		t.Fatalf("pickUp: %v", err)
	}
	if err := v.pickUp(); err == nil {
		t.Fatalf("expected a second pick up to fail")
	}

	v.moveColumn(-1)
	if got := v.board.Columns[v.target].Status; got != model.StatusOnHold {
		t.Fatalf("expected target to wrap to on_hold, got %q", got)
	}
	v.moveRow(1)
	if v.row != 0 || v.col != 0 {
		t.Fatalf("expected the cursor to stay put while dragging, got col=%d row=%d", v.col, v.row)
	}

	d, target, ok := v.release()
	if !ok || target != model.StatusOnHold {
		t.Fatalf("release: ok=%v target=%q", ok, target)
	}
	if card, dragging := d.Card(); !dragging || card.ID != "m1" {
		t.Fatalf("expected the released drag to carry m1, got %+v dragging=%v", card, dragging)
	}
	if v.drag.Dragging() {
		t.Fatalf("expected the view to be idle after release")
	}
	if _, _, ok := v.release(); ok {
		t.Fatalf("expected release without a drag to report false")
	}
	// Nothing moves until the server answers.
	if c, _, _ := v.board.Find("m1"); v.board.Columns[c].Status != model.StatusPending {
		t.Fatalf("expected m1 to stay in pending")
	}
}

func TestBoardView_SetModulesKeepsSelection(t *testing.T) {
	v := newBoardView(boardModules(), fixedNow)
	v.moveRow(1) // Billing

	mods := boardModules()
	mods[1].Status = model.StatusCompleted
	v.setModules(mods)

	card, ok := v.selectedCard()
	if !ok || card.ID != "m2" {
		t.Fatalf("expected selection to follow m2, got %+v", card)
	}
	if got := v.board.Columns[v.col].Status; got != model.StatusCompleted {
		t.Fatalf("expected cursor in completed column, got %q", got)
	}

	v.setModules(nil)
	if _, ok := v.selectedCard(); ok {
		t.Fatalf("expected no selection on an empty board")
	}
}
