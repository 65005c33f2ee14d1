package discordfake

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/jrsteele09/go-discord-auth/discord"
)

var _ discord.Members = (*FakeMembers)(nil)

// Message is a DM captured by FakeMembers
type Message struct {
	UserID string
	Send   *discordgo.MessageSend
}

// FakeMembers records role grants and DMs. Set GrantErr / NotifyErr to make calls fail.
type FakeMembers struct {
	lock sync.Mutex

	GrantErr  error
	NotifyErr error

	Grants   []string
	Messages []Message
}

func NewFakeMembers() *FakeMembers {
	return &FakeMembers{}
}

func (f *FakeMembers) GrantRole(ctx context.Context, userID string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.GrantErr != nil {
		return f.GrantErr
	}
	f.Grants = append(f.Grants, userID)
	return nil
}

func (f *FakeMembers) Notify(ctx context.Context, userID string, msg *discordgo.MessageSend) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.NotifyErr != nil {
		return f.NotifyErr
	}
	f.Messages = append(f.Messages, Message{UserID: userID, Send: msg})
	return nil
}
