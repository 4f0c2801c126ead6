package main

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sigumaa/kazoe/internal/counting"
	"github.com/sigumaa/kazoe/internal/dispatch"
	"github.com/sigumaa/kazoe/internal/policy"
)

func handleMessage(rootCtx context.Context, rules policy.Rules, tracker *counting.Tracker, deleter messageDeleter, m *discordgo.MessageCreate, meta dispatch.CallbackMetadata, runID string) {
	authorID := ""
	if m.Author != nil {
		authorID = m.Author.ID
	}
	log.Printf("event=message_received run_id=%s message=%s guild=%s channel=%s author=%s queue_wait_ms=%d enqueued_at=%s", runID, m.ID, m.GuildID, m.ChannelID, authorID, durationMS(meta.QueueWait), meta.EnqueuedAt.UTC().Format(time.RFC3339Nano))

	allowed, reason := policy.Evaluate(rules, policy.Incoming{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		AuthorID:  authorID,
	})
	if !allowed {
		log.Printf("event=message_filtered run_id=%s message=%s guild=%s channel=%s author=%s reason=%s", runID, m.ID, m.GuildID, m.ChannelID, authorID, reason)
		return
	}

	outcome := tracker.Apply(authorID, m.Content)
	if outcome.Accepted {
		log.Printf("event=count_accepted run_id=%s message=%s channel=%s author=%s count=%d", runID, m.ID, m.ChannelID, authorID, outcome.Next.Count)
		return
	}

	log.Printf("event=count_rejected run_id=%s message=%s channel=%s author=%s reason=%s", runID, m.ID, m.ChannelID, authorID, outcome.Reason)

	ctx, cancel := context.WithTimeout(rootCtx, deleteTimeout)
	defer cancel()
	if err := deleter.DeleteMessage(ctx, m.ChannelID, m.ID); err != nil {
		log.Printf("event=message_delete_failed run_id=%s message=%s channel=%s err=%v", runID, m.ID, m.ChannelID, err)
		return
	}
	log.Printf("event=message_deleted run_id=%s message=%s channel=%s reason=%s", runID, m.ID, m.ChannelID, outcome.Reason)
}
