package bot

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/relancina/internal/config"
	"github.com/fadedpez/relancina/internal/discord"
	"github.com/fadedpez/relancina/internal/games"
	"github.com/fadedpez/relancina/internal/logging"
)

// Bot is the Discord front-end: one Relancina game per channel
type Bot struct {
	config     *config.Config
	session    discord.SessionHandler
	games      games.Service
	channels   *games.Registry
	logger     *logging.Logger
	commands   []*discordgo.ApplicationCommand
	shutdownWg sync.WaitGroup
}

// New creates a bot around an unopened session
func New(cfg *config.Config, session discord.SessionHandler, svc games.Service, logger *logging.Logger) *Bot {
	if logger == nil {
		logger = logging.Default
	}
	return &Bot{
		config:   cfg,
		session:  session,
		games:    svc,
		channels: games.NewRegistry(),
		logger:   logger,
	}
}

// Start connects to Discord and registers the slash commands
func (b *Bot) Start() error {
	b.session.AddHandler(b.handleInteractionCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Discord bot started with %d commands", len(b.commands))
	return nil
}

// Shutdown waits for in-flight interactions and closes the session
func (b *Bot) Shutdown() {
	b.shutdownWg.Wait()

	// Cleanup commands if in development
	if b.config.IsDevelopment() {
		b.cleanupCommands()
	}

	if err := b.session.Close(); err != nil {
		b.logger.Error("Error closing Discord session: %v", err)
	}
}

func (b *Bot) registerCommands() error {
	for _, cmd := range Commands {
		created, err := b.session.ApplicationCommandCreate(b.config.AppID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("create command %s: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, created)
	}
	return nil
}

func (b *Bot) cleanupCommands() {
	for _, cmd := range b.commands {
		if err := b.session.ApplicationCommandDelete(b.config.AppID, b.config.GuildID, cmd.ID); err != nil {
			b.logger.Warn("Error deleting command %s: %v", cmd.Name, err)
		}
	}
	b.commands = nil
}

// handleInteractionCreate is the discordgo event handler
func (b *Bot) handleInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	b.shutdownWg.Add(1)
	defer b.shutdownWg.Done()

	b.handleSlashCommand(b.session, i)
}
