package discordx

import (
	"context"
	"testing"

	"github.com/sigumaa/kazoe/internal/config"
)

func testGateway() *Gateway {
	return NewGateway(nil, config.Config{
		Discord:  config.DiscordConfig{GuildID: "g1"},
		Counting: config.CountingConfig{ChannelID: "c-count"},
	})
}

func TestGatewayChannelValidation(t *testing.T) {
	t.Parallel()

	gateway := testGateway()

	if err := gateway.validateChannel("c-count"); err != nil {
		t.Fatalf("validateChannel(counting) error = %v", err)
	}
	if err := gateway.validateChannel("c-other"); err == nil {
		t.Fatal("validateChannel(other) error = nil, want error")
	}
	if err := gateway.validateChannel(""); err == nil {
		t.Fatal("validateChannel(empty) error = nil, want error")
	}
}

func TestDeleteMessageRejectsBadInput(t *testing.T) {
	t.Parallel()

	gateway := testGateway()
	ctx := context.Background()

	if err := gateway.DeleteMessage(ctx, "c-other", "m1"); err == nil {
		t.Fatal("DeleteMessage(other channel) error = nil, want error")
	}
	if err := gateway.DeleteMessage(ctx, "c-count", ""); err == nil {
		t.Fatal("DeleteMessage(empty id) error = nil, want error")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := gateway.DeleteMessage(cancelled, "c-count", "m1"); err == nil {
		t.Fatal("DeleteMessage(cancelled ctx) error = nil, want error")
	}
}

func TestReadMessageHistoryRejectsOtherChannels(t *testing.T) {
	t.Parallel()

	gateway := testGateway()
	if _, err := gateway.ReadMessageHistory(context.Background(), "c-other", "", 10); err == nil {
		t.Fatal("ReadMessageHistory(other channel) error = nil, want error")
	}
}
