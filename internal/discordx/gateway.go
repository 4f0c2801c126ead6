// Package discordx wraps the discordgo session with the narrow surface
// the moderator needs: deleting messages in the counting channel and
// reading its recent history.
package discordx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sigumaa/kazoe/internal/config"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

type Message struct {
	ID          string
	ChannelID   string
	GuildID     string
	AuthorID    string
	AuthorIsBot bool
	Content     string
	CreatedAt   time.Time
}

type Gateway struct {
	session   *discordgo.Session
	guildID   string
	channelID string
}

func NewGateway(session *discordgo.Session, cfg config.Config) *Gateway {
	return &Gateway{
		session:   session,
		guildID:   strings.TrimSpace(cfg.Discord.GuildID),
		channelID: strings.TrimSpace(cfg.Counting.ChannelID),
	}
}

// DeleteMessage removes one message from the counting channel. Callers
// treat failures as best-effort: log and move on, never retry.
func (g *Gateway) DeleteMessage(ctx context.Context, channelID string, messageID string) error {
	if err := g.validateChannel(channelID); err != nil {
		return err
	}
	if strings.TrimSpace(messageID) == "" {
		return errors.New("message_id is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := g.session.ChannelMessageDelete(channelID, messageID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// ReadMessageHistory returns up to limit messages from the counting
// channel, newest first, as Discord delivers them. Content is passed
// through untouched: the strict-form rule needs the raw text.
func (g *Gateway) ReadMessageHistory(ctx context.Context, channelID string, beforeMessageID string, limit int) ([]Message, error) {
	if err := g.validateChannel(channelID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	history, err := g.session.ChannelMessages(channelID, limit, beforeMessageID, "", "")
	if err != nil {
		return nil, fmt.Errorf("fetch channel history: %w", err)
	}

	out := make([]Message, 0, len(history))
	for _, msg := range history {
		if msg == nil || msg.Author == nil {
			continue
		}
		out = append(out, Message{
			ID:          msg.ID,
			ChannelID:   msg.ChannelID,
			GuildID:     msg.GuildID,
			AuthorID:    msg.Author.ID,
			AuthorIsBot: msg.Author.Bot,
			Content:     msg.Content,
			CreatedAt:   msg.Timestamp,
		})
	}
	return out, nil
}

func (g *Gateway) validateChannel(channelID string) error {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return errors.New("channel_id is required")
	}
	if channelID != g.channelID {
		return fmt.Errorf("channel %s is not the counting channel", channelID)
	}
	return nil
}
