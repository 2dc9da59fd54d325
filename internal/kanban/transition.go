package kanban

import (
	"context"
	"errors"
	"strings"
	"time"

	"planboard-cli/internal/model"
)

var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrAlreadyDragging = errors.New("already dragging a card")
	ErrNotDragging     = errors.New("no card is being dragged")
)

// Updater persists a module update. backend.Client implements it.
type Updater interface {
	UpdateModule(ctx context.Context, id model.ID, in model.ModuleInput) (model.Module, error)
}

type MoveResult struct {
	Module  model.Module
	From    model.Status
	To      model.Status
	Changed bool
}

// UpdateInput builds the full update body for moving m to status. Completion
// is stamped with today's date; any other status clears it.
func UpdateInput(m model.Module, status model.Status, today time.Time) model.ModuleInput {
	in := model.ModuleInput{
		Name:          m.Name,
		Description:   m.Description,
		EstimatedDays: int(m.EstimatedDays),
		Status:        status,
		IsCompleted:   status == model.StatusCompleted,
	}
	if in.IsCompleted {
		d := model.FormatDay(today)
		in.CompletedAt = &d
	}
	return in
}

// Move sends one update request when target differs from m's status. The
// caller's copy of m is never modified; the board is expected to refetch.
func Move(ctx context.Context, u Updater, m model.Module, target model.Status, today time.Time) (MoveResult, error) {
	target = model.Status(strings.TrimSpace(string(target)))
	if !ValidStatus(target) {
		return MoveResult{}, ErrInvalidStatus
	}
	res := MoveResult{Module: m, From: m.Status, To: target}
	if m.Status == target {
		return res, nil
	}
	updated, err := u.UpdateModule(ctx, m.ID, UpdateInput(m, target, today))
	if err != nil {
		return res, err
	}
	if updated.ID == "" {
		updated = m
		updated.Status = target
	}
	res.Module = updated
	res.Changed = true
	return res, nil
}
