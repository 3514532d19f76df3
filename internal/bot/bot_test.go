package bot

import (
	"errors"
	"io"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/relancina/internal/config"
	discordmock "github.com/fadedpez/relancina/internal/discord/mock"
	"github.com/fadedpez/relancina/internal/games"
	"github.com/fadedpez/relancina/internal/logging"
)

type BotTestSuite struct {
	suite.Suite
	session *discordmock.SessionHandler
	config  *config.Config
	bot     *Bot
}

func TestBotSuite(t *testing.T) {
	suite.Run(t, new(BotTestSuite))
}

func (s *BotTestSuite) SetupTest() {
	s.session = &discordmock.SessionHandler{}
	s.session.Test(s.T())
	s.config = &config.Config{
		Environment: "development",
		AppID:       "test-app-id",
		GuildID:     "test-guild-id",
	}
	s.bot = New(s.config, s.session, &games.MockService{}, logging.NewLoggerTo(io.Discard, logging.ERROR))
}

func (s *BotTestSuite) TestStartRegistersCommands() {
	// Setup
	s.session.On("AddHandler", mock.AnythingOfType("func(*discordgo.Session, *discordgo.InteractionCreate)")).Return(func() {})
	s.session.On("Open").Return(nil)
	s.session.On("ApplicationCommandCreate", "test-app-id", "test-guild-id", mock.Anything).
		Return(&discordgo.ApplicationCommand{ID: "cmd-1", Name: CommandName}, nil)

	// Execute
	err := s.bot.Start()

	// Assert
	s.NoError(err)
	s.Require().Len(s.bot.commands, 1)
	s.Equal("cmd-1", s.bot.commands[0].ID)
	s.session.AssertExpectations(s.T())
}

func (s *BotTestSuite) TestStartOpenFailure() {
	s.session.On("AddHandler", mock.Anything).Return(func() {})
	s.session.On("Open").Return(errors.New("bad token"))

	err := s.bot.Start()

	s.ErrorContains(err, "bad token")
	s.session.AssertNotCalled(s.T(), "ApplicationCommandCreate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *BotTestSuite) TestShutdownInDevelopmentDeletesCommands() {
	// Setup
	s.bot.commands = []*discordgo.ApplicationCommand{{ID: "cmd-1", Name: CommandName}}
	s.session.On("ApplicationCommandDelete", "test-app-id", "test-guild-id", "cmd-1").Return(nil)
	s.session.On("Close").Return(nil)

	// Execute
	s.bot.Shutdown()

	// Assert
	s.Empty(s.bot.commands)
	s.session.AssertExpectations(s.T())
}

func (s *BotTestSuite) TestShutdownInProductionKeepsCommands() {
	s.config.Environment = "production"
	s.bot.commands = []*discordgo.ApplicationCommand{{ID: "cmd-1", Name: CommandName}}
	s.session.On("Close").Return(nil)

	s.bot.Shutdown()

	s.Len(s.bot.commands, 1)
	s.session.AssertNotCalled(s.T(), "ApplicationCommandDelete", mock.Anything, mock.Anything, mock.Anything)
}
