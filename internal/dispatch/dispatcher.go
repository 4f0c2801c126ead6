// Package dispatch serializes gateway message events: one worker
// goroutine per guild/channel pair, consuming a bounded FIFO queue, so
// the handler never sees two messages for the same channel at once and
// always sees them in arrival order.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

const defaultQueueSize = 256

type Handler func(msg *discordgo.MessageCreate, meta CallbackMetadata)

type CallbackMetadata struct {
	QueueWait  time.Duration
	EnqueuedAt time.Time
}

type Dispatcher struct {
	ctx       context.Context
	handler   Handler
	queueSize int

	mu      sync.Mutex
	workers map[string]*worker
}

type worker struct {
	queue chan queuedMessage
}

type queuedMessage struct {
	msg        *discordgo.MessageCreate
	enqueuedAt time.Time
}

func New(ctx context.Context, queueSize int, handler Handler) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if handler == nil {
		handler = func(*discordgo.MessageCreate, CallbackMetadata) {}
	}
	return &Dispatcher{
		ctx:       ctx,
		handler:   handler,
		queueSize: queueSize,
		workers:   map[string]*worker{},
	}
}

// Enqueue queues msg for its channel's worker. When the queue is full
// the incoming message is dropped rather than an older one: the
// validator depends on arrival order, so the already-queued prefix must
// stay intact. Returns true when msg was dropped.
func (d *Dispatcher) Enqueue(msg *discordgo.MessageCreate) (dropped bool) {
	if msg == nil {
		return false
	}
	w := d.getOrCreateWorker(msg)

	select {
	case <-d.ctx.Done():
		return false
	default:
	}

	select {
	case w.queue <- queuedMessage{msg: msg, enqueuedAt: time.Now()}:
		return false
	default:
		return true
	}
}

func (d *Dispatcher) getOrCreateWorker(msg *discordgo.MessageCreate) *worker {
	key := workerKey(msg)

	d.mu.Lock()
	defer d.mu.Unlock()

	if w, ok := d.workers[key]; ok {
		return w
	}

	w := &worker{queue: make(chan queuedMessage, d.queueSize)}
	d.workers[key] = w
	go d.runWorker(w)
	return w
}

func (d *Dispatcher) runWorker(w *worker) {
	for {
		select {
		case <-d.ctx.Done():
			return
		case item := <-w.queue:
			if item.msg == nil {
				continue
			}
			queueWait := time.Since(item.enqueuedAt)
			if queueWait < 0 {
				queueWait = 0
			}
			d.handler(item.msg, CallbackMetadata{
				QueueWait:  queueWait,
				EnqueuedAt: item.enqueuedAt,
			})
		}
	}
}

func workerKey(msg *discordgo.MessageCreate) string {
	guildID := "noguild"
	channelID := "nochannel"
	if msg != nil {
		if msg.GuildID != "" {
			guildID = msg.GuildID
		}
		if msg.ChannelID != "" {
			channelID = msg.ChannelID
		}
	}
	return fmt.Sprintf("%s:%s", guildID, channelID)
}
