package store

import (
	"context"
	"fmt"
)

// Lifecycle hooks a model may implement. Before hooks run ahead of the
// statement and abort it on error. After hooks run once the row is written;
// on create the generated identity is already backfilled.
type (
	BeforeCreator interface {
		BeforeCreate(context.Context) error
	}
	AfterCreator interface {
		AfterCreate(context.Context) error
	}
	BeforeUpdater interface {
		BeforeUpdate(context.Context) error
	}
	AfterUpdater interface {
		AfterUpdate(context.Context) error
	}
)

type hookStage string

const (
	stageBeforeCreate hookStage = "BeforeCreate"
	stageAfterCreate  hookStage = "AfterCreate"
	stageBeforeUpdate hookStage = "BeforeUpdate"
	stageAfterUpdate  hookStage = "AfterUpdate"
)

func runHook(ctx context.Context, stage hookStage, model any) error {
	var err error
	switch stage {
	case stageBeforeCreate:
		if m, ok := model.(BeforeCreator); ok {
			err = m.BeforeCreate(ctx)
		}
	case stageAfterCreate:
		if m, ok := model.(AfterCreator); ok {
			err = m.AfterCreate(ctx)
		}
	case stageBeforeUpdate:
		if m, ok := model.(BeforeUpdater); ok {
			err = m.BeforeUpdate(ctx)
		}
	case stageAfterUpdate:
		if m, ok := model.(AfterUpdater); ok {
			err = m.AfterUpdate(ctx)
		}
	}
	if err != nil {
		return fmt.Errorf("store: %s hook: %w", stage, err)
	}
	return nil
}
