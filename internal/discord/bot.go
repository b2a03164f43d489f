package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/forgo/raidsign/internal/model"
)

// Intents the bot needs to read guild messages
const Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

// ErrMissingToken is returned when the bot is built without a token
var ErrMissingToken = errors.New("discord bot token is required")

// CommandHandler answers a chat message; nil means no reply
type CommandHandler interface {
	Handle(ctx context.Context, req *model.Request) *model.Response
}

// Sender is the subset of *discordgo.Session used to reply
type Sender interface {
	ChannelMessageSendReply(channelID, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Config holds bot settings
type Config struct {
	Token   string
	Handler CommandHandler
}

// Bot connects a CommandHandler to the Discord gateway
type Bot struct {
	session *discordgo.Session
	sender  Sender
	handler CommandHandler
	ctx     context.Context
}

// New creates a bot. The gateway connection is opened by Run.
func New(cfg Config) (*Bot, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = Intents

	b := newBot(session, cfg.Handler)
	b.session = session
	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	return b, nil
}

func newBot(sender Sender, handler CommandHandler) *Bot {
	return &Bot{
		sender:  sender,
		handler: handler,
		ctx:     context.Background(),
	}
}

// Run opens the gateway and blocks until ctx is cancelled
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	slog.InfoContext(ctx, "discord gateway connected")

	<-ctx.Done()

	if err := b.session.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}
	slog.Info("discord gateway closed")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("discord session ready",
		slog.String("user", r.User.Username),
		slog.Int("guilds", len(r.Guilds)),
	)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.HandleMessage(b.ctx, m.Message)
}

// HandleMessage runs one message through the handler and sends the reply.
// Messages from bots, the bot itself included, are ignored.
func (b *Bot) HandleMessage(ctx context.Context, m *discordgo.Message) {
	if m == nil || m.Author == nil || m.Author.Bot {
		return
	}

	req := &model.Request{
		Content:    m.Content,
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		GuildID:    m.GuildID,
		ChannelID:  m.ChannelID,
		MessageID:  m.ID,
	}
	resp := b.handler.Handle(ctx, req)
	if resp.IsEmpty() {
		return
	}

	if err := b.deliver(m, resp); err != nil {
		slog.ErrorContext(ctx, "failed to send reply",
			slog.String("channel_id", m.ChannelID),
			slog.String("message_id", m.ID),
			slog.String("error", err.Error()),
		)
	}
}

// deliver sends text as a reply and embeds as channel messages. Only the
// first message sent references the original.
func (b *Bot) deliver(m *discordgo.Message, resp *model.Response) error {
	ref := m.Reference()

	if resp.Text != "" {
		if _, err := b.sender.ChannelMessageSendReply(m.ChannelID, resp.Text, ref); err != nil {
			return fmt.Errorf("send reply: %w", err)
		}
		ref = nil
	}

	for _, embeds := range RenderMessages(resp.Embeds) {
		msg := &discordgo.MessageSend{Embeds: embeds, Reference: ref}
		if _, err := b.sender.ChannelMessageSendComplex(m.ChannelID, msg); err != nil {
			return fmt.Errorf("send embeds: %w", err)
		}
		ref = nil
	}
	return nil
}
