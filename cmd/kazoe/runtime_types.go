package main

import (
	"context"
	"time"

	"github.com/sigumaa/kazoe/internal/discordx"
)

const deleteTimeout = 15 * time.Second

type messageDeleter interface {
	DeleteMessage(ctx context.Context, channelID string, messageID string) error
}

type historyReader interface {
	ReadMessageHistory(ctx context.Context, channelID string, beforeMessageID string, limit int) ([]discordx.Message, error)
}
