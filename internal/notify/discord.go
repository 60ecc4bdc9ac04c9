package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// discordMessageLimit is the maximum content length of one channel message
const discordMessageLimit = 2000

// messageSender is the slice of the discordgo session this sink needs
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordSink posts notifications to a single channel
type DiscordSink struct {
	sender    messageSender
	channelID string
}

// NewDiscordSink creates a bot session for token and targets channelID
func NewDiscordSink(token, channelID string) (*DiscordSink, error) {
	if token == "" || channelID == "" {
		return nil, fmt.Errorf("discord token and channel id are required")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	return &DiscordSink{sender: session, channelID: channelID}, nil
}

// Send posts the notification text, split into chunks that fit the message limit
func (d *DiscordSink) Send(ctx context.Context, n Notification) error {
	for _, chunk := range Chunk(n.Text, discordMessageLimit) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := d.sender.ChannelMessageSend(d.channelID, chunk, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("posting to channel %s: %w", d.channelID, err)
		}
	}
	return nil
}

// Chunk splits text on line boundaries so no piece exceeds limit runes.
// A single line longer than limit is hard-split.
func Chunk(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + limit
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		cut := end
		for i := end; i > start; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[start:cut]))
		start = cut
	}
	return chunks
}
