package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sigumaa/kazoe/internal/config"
	"github.com/sigumaa/kazoe/internal/counting"
	"github.com/sigumaa/kazoe/internal/discordx"
	"github.com/sigumaa/kazoe/internal/dispatch"
	"github.com/sigumaa/kazoe/internal/heartbeat"
	"github.com/sigumaa/kazoe/internal/policy"
)

func runApplication(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	discord, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	discord.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	gateway := discordx.NewGateway(discord, cfg)
	tracker := counting.NewTracker()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	var runSeq atomic.Uint64

	if cfg.Counting.ResumeFromHistory {
		seedTrackerFromHistory(ctx, gateway, tracker, cfg.Counting.ChannelID, cfg.Counting.ResumeHistoryLimit)
	}

	dispatcher := dispatch.New(ctx, 256, func(m *discordgo.MessageCreate, meta dispatch.CallbackMetadata) {
		rules := policy.Rules{
			GuildID:    cfg.Discord.GuildID,
			ChannelID:  cfg.Counting.ChannelID,
			SelfUserID: sessionSelfID(discord),
		}
		runID := nextRunID(&runSeq, "msg")
		handleMessage(ctx, rules, tracker, gateway, m, meta, runID)
	})

	discord.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if dropped := dispatcher.Enqueue(m); dropped {
			log.Printf("event=dispatch_queue_full guild=%s channel=%s dropped_message=%s", m.GuildID, m.ChannelID, m.ID)
		}
	})

	if err := discord.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	if cfg.Heartbeat.Enabled {
		runner, err := heartbeat.NewRunner(cfg.Heartbeat.Cron, cfg.Heartbeat.Timezone, func(context.Context) error {
			state := tracker.Snapshot()
			log.Printf("event=heartbeat_tick started=%t count=%d last_author=%s", state.Started, state.Count, state.AuthorID)
			return nil
		})
		if err != nil {
			_ = discord.Close()
			return fmt.Errorf("init heartbeat runner: %w", err)
		}
		runner.Start(ctx)
	}

	log.Printf("kazoe started: guild=%s channel=%s resume_from_history=%t heartbeat=%t", cfg.Discord.GuildID, cfg.Counting.ChannelID, cfg.Counting.ResumeFromHistory, cfg.Heartbeat.Enabled)

	<-ctx.Done()
	stop()
	log.Printf("event=shutdown_started")
	runShutdownStep("discord_close", 2*time.Second, func() {
		_ = discord.Close()
	})
	log.Printf("kazoe stopped")
	return nil
}
