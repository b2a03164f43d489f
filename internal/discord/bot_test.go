package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/raidsign/internal/model"
)

type sentReply struct {
	channelID string
	content   string
	reference *discordgo.MessageReference
}

type fakeSender struct {
	replies  []sentReply
	messages []*discordgo.MessageSend
	err      error
}

func (f *fakeSender) ChannelMessageSendReply(channelID, content string, reference *discordgo.MessageReference, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.replies = append(f.replies, sentReply{channelID: channelID, content: content, reference: reference})
	return &discordgo.Message{}, nil
}

func (f *fakeSender) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.messages = append(f.messages, data)
	return &discordgo.Message{}, nil
}

type handlerFunc func(ctx context.Context, req *model.Request) *model.Response

func (f handlerFunc) Handle(ctx context.Context, req *model.Request) *model.Response {
	return f(ctx, req)
}

func message(content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		GuildID:   "g1",
		Content:   content,
		Author:    &discordgo.User{ID: "u1", Username: "thrall"},
	}
}

func TestHandleMessage_BuildsRequestAndReplies(t *testing.T) {
	sender := &fakeSender{}
	var got *model.Request
	bot := newBot(sender, handlerFunc(func(_ context.Context, req *model.Request) *model.Response {
		got = req
		return model.TextResponse("pong")
	}))

	bot.HandleMessage(context.Background(), message("!raidlist"))

	require.NotNil(t, got)
	assert.Equal(t, model.Request{
		Content:    "!raidlist",
		AuthorID:   "u1",
		AuthorName: "thrall",
		GuildID:    "g1",
		ChannelID:  "c1",
		MessageID:  "m1",
	}, *got)
	require.Len(t, sender.replies, 1)
	assert.Equal(t, "c1", sender.replies[0].channelID)
	assert.Equal(t, "pong", sender.replies[0].content)
	require.NotNil(t, sender.replies[0].reference)
	assert.Equal(t, "m1", sender.replies[0].reference.MessageID)
	assert.Empty(t, sender.messages)
}

func TestHandleMessage_IgnoresBots(t *testing.T) {
	sender := &fakeSender{}
	called := false
	bot := newBot(sender, handlerFunc(func(context.Context, *model.Request) *model.Response {
		called = true
		return model.TextResponse("x")
	}))

	m := message("!raidlist")
	m.Author.Bot = true
	bot.HandleMessage(context.Background(), m)
	bot.HandleMessage(context.Background(), &discordgo.Message{Content: "!raidlist"})
	bot.HandleMessage(context.Background(), nil)

	assert.False(t, called)
	assert.Empty(t, sender.replies)
}

func TestHandleMessage_NoReplyForNil(t *testing.T) {
	sender := &fakeSender{}
	bot := newBot(sender, handlerFunc(func(context.Context, *model.Request) *model.Response { return nil }))

	bot.HandleMessage(context.Background(), message("hello"))

	assert.Empty(t, sender.replies)
	assert.Empty(t, sender.messages)
}

func TestHandleMessage_EmbedsAreBatched(t *testing.T) {
	sender := &fakeSender{}
	embeds := make([]model.Embed, 12)
	for i := range embeds {
		embeds[i] = model.Embed{Title: "raid"}
	}
	bot := newBot(sender, handlerFunc(func(context.Context, *model.Request) *model.Response {
		return model.EmbedResponse(embeds...)
	}))

	bot.HandleMessage(context.Background(), message("!showraid Naxx"))

	require.Len(t, sender.messages, 2)
	assert.Len(t, sender.messages[0].Embeds, MaxEmbedsPerMessage)
	assert.Len(t, sender.messages[1].Embeds, 2)
	require.NotNil(t, sender.messages[0].Reference)
	assert.Nil(t, sender.messages[1].Reference)
}

func TestHandleMessage_SendErrorIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("discord down")}
	bot := newBot(sender, handlerFunc(func(context.Context, *model.Request) *model.Response {
		return model.TextResponse("pong")
	}))

	assert.NotPanics(t, func() {
		bot.HandleMessage(context.Background(), message("!raidlist"))
	})
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrMissingToken)

	bot, err := New(Config{Token: "abc"})
	require.NoError(t, err)
	assert.Equal(t, Intents, bot.session.Identify.Intents)
}
