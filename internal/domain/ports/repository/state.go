package repository

import (
	"context"

	"telegram-file-convert/internal/domain/model"
)

// PendingAction is the conversational state between "user picked a tool" and
// "user uploaded the file". For merge it also accumulates uploaded PDFs until
// the user presses Merge Now.
type PendingAction struct {
	Operation   model.Operation `json:"operation"`
	MergeInputs []string        `json:"merge_inputs,omitempty"`
}

// StateRepository manages per-user pending actions. Get returns
// domain.ErrNotFound when the user has no pending action.
type StateRepository interface {
	Set(ctx context.Context, tgID int64, state *PendingAction) error
	Get(ctx context.Context, tgID int64) (*PendingAction, error)
	Clear(ctx context.Context, tgID int64) error
}
