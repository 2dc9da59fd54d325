package kanban

import (
	"context"
	"time"

	"planboard-cli/internal/model"
)

// Drag is the pick-up / drop state of a board. The zero value is idle.
type Drag struct {
	Now func() time.Time

	dragging bool
	card     model.Module
}

func (d *Drag) Start(card model.Module) error {
	if d.dragging {
		return ErrAlreadyDragging
	}
	d.dragging = true
	d.card = card
	return nil
}

func (d *Drag) Cancel() {
	d.dragging = false
	d.card = model.Module{}
}

// Card returns the card in hand.
func (d *Drag) Card() (model.Module, bool) {
	return d.card, d.dragging
}

func (d *Drag) Dragging() bool { return d.dragging }

// Drop releases the card over target and persists the move. The drag is
// back to idle afterwards whether or not the update succeeded.
func (d *Drag) Drop(ctx context.Context, u Updater, target model.Status) (MoveResult, error) {
	if !d.dragging {
		return MoveResult{}, ErrNotDragging
	}
	card := d.card
	d.Cancel()

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return Move(ctx, u, card, target, now())
}
