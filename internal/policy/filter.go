// Package policy filters incoming gateway events down to the messages
// the counting rules apply to.
package policy

type Rules struct {
	GuildID    string
	ChannelID  string
	SelfUserID string
}

type Incoming struct {
	GuildID   string
	ChannelID string
	AuthorID  string
}

// Evaluate reports whether the message should reach the counting
// validator, with a short reason token for logging when it should not.
// The bot's own messages are ignored so a deletion or system event can
// never feed back into the rules.
func Evaluate(rules Rules, msg Incoming) (bool, string) {
	if msg.GuildID == "" || msg.ChannelID == "" {
		return false, "missing_ids"
	}
	if msg.GuildID != rules.GuildID {
		return false, "guild_mismatch"
	}
	if msg.ChannelID != rules.ChannelID {
		return false, "channel_not_monitored"
	}
	if msg.AuthorID == "" {
		return false, "missing_author"
	}
	if rules.SelfUserID != "" && msg.AuthorID == rules.SelfUserID {
		return false, "self_message"
	}
	return true, ""
}
