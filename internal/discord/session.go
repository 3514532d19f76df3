package discord

import (
	"github.com/bwmarrin/discordgo"
)

// SessionHandler is the slice of the Discord session the bot talks to
type SessionHandler interface {
	InteractionRespond(i *discordgo.Interaction, r *discordgo.InteractionResponse) error
	ChannelMessageSend(channelID string, content string) (*discordgo.Message, error)

	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID string, guildID string, cmdID string) error

	Open() error
	Close() error
	AddHandler(handler interface{}) func()
}

// Session adapts a discordgo.Session to SessionHandler
type Session struct {
	*discordgo.Session
}

// NewSession builds a bot session for token without connecting
func NewSession(token string) (*Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	return &Session{Session: s}, nil
}

var _ SessionHandler = (*Session)(nil)

func (s *Session) InteractionRespond(i *discordgo.Interaction, r *discordgo.InteractionResponse) error {
	return s.Session.InteractionRespond(i, r)
}

func (s *Session) ChannelMessageSend(channelID string, content string) (*discordgo.Message, error) {
	return s.Session.ChannelMessageSend(channelID, content)
}

func (s *Session) ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand) (*discordgo.ApplicationCommand, error) {
	return s.Session.ApplicationCommandCreate(appID, guildID, cmd)
}

func (s *Session) ApplicationCommandDelete(appID string, guildID string, cmdID string) error {
	return s.Session.ApplicationCommandDelete(appID, guildID, cmdID)
}

// AddHandler registers a discordgo event handler
func (s *Session) AddHandler(handler interface{}) func() {
	return s.Session.AddHandler(handler)
}
