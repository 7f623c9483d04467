package commands

import (
	"context"
	"fmt"

	"github.com/aatumaykin/cqbot/internal/bus"
	"github.com/aatumaykin/cqbot/internal/constants"
	"github.com/aatumaykin/cqbot/internal/logger"
)

type imageResult struct {
	URL string `json:"url"`
}

type poemResult struct {
	Content string `json:"content"`
}

func (b *Builtins) handleCat(ctx context.Context, _ bus.IncomingMessage, cmd string, _ []string) []string {
	return b.fetchImage(ctx, cmd, b.catURL)
}

func (b *Builtins) handleDog(ctx context.Context, _ bus.IncomingMessage, cmd string, _ []string) []string {
	return b.fetchImage(ctx, cmd, b.dogURL)
}

// fetchImage replies with the first image of a thecatapi-style search result.
func (b *Builtins) fetchImage(ctx context.Context, cmd, url string) []string {
	if b.fetcher == nil {
		return nil
	}

	var results []imageResult
	if err := b.fetcher.GetJSON(ctx, url, &results); err != nil {
		b.logger.WarnCtx(ctx, "image lookup failed",
			logger.Field{Key: "command", Value: cmd},
			logger.Field{Key: "error", Value: err.Error()})
		return nil
	}
	if len(results) == 0 || results[0].URL == "" {
		return nil
	}
	return []string{fmt.Sprintf(constants.MsgImageFormat, results[0].URL)}
}

func (b *Builtins) handlePoem(ctx context.Context, _ bus.IncomingMessage, cmd string, _ []string) []string {
	if b.fetcher == nil {
		return nil
	}

	var poem poemResult
	if err := b.fetcher.GetJSON(ctx, b.poemURL, &poem); err != nil {
		b.logger.WarnCtx(ctx, "poem lookup failed",
			logger.Field{Key: "command", Value: cmd},
			logger.Field{Key: "error", Value: err.Error()})
		return nil
	}
	if poem.Content == "" {
		return nil
	}
	return []string{poem.Content}
}
