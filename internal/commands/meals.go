package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/aatumaykin/cqbot/internal/bus"
	"github.com/aatumaykin/cqbot/internal/constants"
	"github.com/aatumaykin/cqbot/internal/logger"
	"github.com/aatumaykin/cqbot/internal/meals"
)

// loadMenu reads the meal document on every request so edits apply without
// a restart.
func (b *Builtins) loadMenu(ctx context.Context) (*meals.Menu, bool) {
	menu, err := meals.Load(b.mealsPath)
	if err != nil {
		b.logger.WarnCtx(ctx, "meal data unavailable",
			logger.Field{Key: "path", Value: b.mealsPath},
			logger.Field{Key: "error", Value: err.Error()})
		return nil, false
	}
	return menu, true
}

func (b *Builtins) handleEat(ctx context.Context, _ bus.IncomingMessage, _ string, _ []string) []string {
	menu, ok := b.loadMenu(ctx)
	if !ok {
		return nil
	}
	lines := []string{
		fmt.Sprintf(constants.MsgBreakfastFormat, menu.PickBreakfast(b.rand)),
		fmt.Sprintf(constants.MsgLunchFormat, menu.PickLunch(b.rand)),
		fmt.Sprintf(constants.MsgDinnerFormat, menu.PickDinner(b.rand)),
		fmt.Sprintf(constants.MsgMidnightSnackFormat, menu.PickMidnightSnack(b.rand)),
	}
	return []string{strings.Join(lines, "\n")}
}

func (b *Builtins) handleBreakfast(ctx context.Context, _ bus.IncomingMessage, _ string, _ []string) []string {
	menu, ok := b.loadMenu(ctx)
	if !ok {
		return nil
	}
	return []string{fmt.Sprintf(constants.MsgBreakfastFormat, menu.PickBreakfast(b.rand))}
}

func (b *Builtins) handleLunch(ctx context.Context, _ bus.IncomingMessage, _ string, _ []string) []string {
	menu, ok := b.loadMenu(ctx)
	if !ok {
		return nil
	}
	return []string{fmt.Sprintf(constants.MsgLunchFormat, menu.PickLunch(b.rand))}
}

func (b *Builtins) handleDinner(ctx context.Context, _ bus.IncomingMessage, _ string, _ []string) []string {
	menu, ok := b.loadMenu(ctx)
	if !ok {
		return nil
	}
	return []string{fmt.Sprintf(constants.MsgDinnerFormat, menu.PickDinner(b.rand))}
}

func (b *Builtins) handleMidnightSnack(ctx context.Context, _ bus.IncomingMessage, _ string, _ []string) []string {
	menu, ok := b.loadMenu(ctx)
	if !ok {
		return nil
	}
	return []string{fmt.Sprintf(constants.MsgMidnightSnackFormat, menu.PickMidnightSnack(b.rand))}
}
