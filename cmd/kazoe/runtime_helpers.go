package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sigumaa/kazoe/internal/counting"
	"github.com/sigumaa/kazoe/internal/discordx"
)

func nextRunID(seq *atomic.Uint64, prefix string) string {
	number := seq.Add(1)
	p := strings.TrimSpace(prefix)
	if p == "" {
		p = "run"
	}
	return fmt.Sprintf("%s-%d", p, number)
}

func durationMS(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return d.Milliseconds()
}

func sessionSelfID(session *discordgo.Session) string {
	if session == nil || session.State == nil || session.State.User == nil {
		return ""
	}
	return session.State.User.ID
}

// seedTrackerFromHistory rebuilds the counting state from recent channel
// history: the newest non-bot message whose content passes the strict
// form and value rules becomes the resumed state. Any failure leaves the
// tracker uninitialized; the game simply restarts with the next message.
func seedTrackerFromHistory(ctx context.Context, reader historyReader, tracker *counting.Tracker, channelID string, limit int) {
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	history, err := reader.ReadMessageHistory(readCtx, channelID, "", limit)
	if err != nil {
		log.Printf("event=resume_history_read_failed channel=%s err=%v", channelID, err)
		return
	}

	state, ok := stateFromHistory(history)
	if !ok {
		log.Printf("event=resume_no_candidate channel=%s scanned=%d", channelID, len(history))
		return
	}
	tracker.Seed(state)
	log.Printf("event=resume_seeded channel=%s count=%d last_author=%s", channelID, state.Count, state.AuthorID)
}

// stateFromHistory scans newest-first and returns the state implied by
// the most recent message that would have been a legal count on its own.
func stateFromHistory(history []discordx.Message) (counting.State, bool) {
	for _, msg := range history {
		if msg.AuthorIsBot {
			continue
		}
		out := counting.Evaluate(counting.State{}, msg.AuthorID, msg.Content)
		if out.Accepted {
			return out.Next, true
		}
	}
	return counting.State{}, false
}

func runShutdownStep(name string, timeout time.Duration, fn func()) bool {
	if fn == nil {
		return false
	}
	started := time.Now()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()

	if timeout <= 0 {
		<-done
		log.Printf("event=shutdown_step_completed step=%s latency_ms=%d", name, durationMS(time.Since(started)))
		return false
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		log.Printf("event=shutdown_step_completed step=%s latency_ms=%d", name, durationMS(time.Since(started)))
		return false
	case <-timer.C:
		log.Printf("event=shutdown_step_timeout step=%s timeout_ms=%d", name, durationMS(timeout))
		return true
	}
}
