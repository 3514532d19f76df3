package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/relancina/internal/discord"
	"github.com/fadedpez/relancina/internal/types"
	"github.com/fadedpez/relancina/pkg/services/relancina"
)

const commandTimeout = 10 * time.Second

// handleSlashCommand runs a /relancina subcommand and replies to it
func (b *Bot) handleSlashCommand(s discord.SessionHandler, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name != CommandName || len(data.Options) == 0 {
		b.logger.Warn("Unknown command: %s", data.Name)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	sub := data.Options[0]
	resp, err := b.dispatch(ctx, i, sub)
	if err != nil {
		b.logger.Debug("/%s %s in %s failed: %v", CommandName, sub.Name, i.ChannelID, err)
		resp = discord.NewErrorResponse(err)
	}
	if err := discord.SendResponse(s, i, resp); err != nil {
		b.logger.Error("Error responding to interaction %s: %v", i.ID, err)
	}
}

func (b *Bot) dispatch(ctx context.Context, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) (*discord.Response, error) {
	if sub.Name == "create" {
		return b.handleCreate(ctx, i, sub)
	}

	gameID, err := b.channels.Lookup(i.ChannelID)
	if err != nil {
		return nil, err
	}
	user := interactionUser(i)
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "bet":
		line, err := b.games.PlaceBet(ctx, gameID, user.ID, opts.integer("amount"))
		if err != nil {
			return nil, err
		}
		return discord.NewResponse(fmt.Sprintf("💰 **%s** bets %d (%d credits left)", line.Name, line.Bet, line.Credits)), nil

	case "start":
		result, err := b.games.StartGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return startResponse(result), nil

	case "restart":
		result, err := b.games.RestartGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return startResponse(result), nil

	case "hit":
		return actionResponse(b.games.Hit(ctx, gameID, user.ID))
	case "stand":
		return actionResponse(b.games.Stand(ctx, gameID, user.ID))
	case "change":
		return actionResponse(b.games.ChangeHand(ctx, gameID, user.ID))
	case "ace":
		return actionResponse(b.games.ChooseAce(ctx, gameID, user.ID, int(opts.integer("index")), int(opts.integer("value"))))

	case "house-hit", "house-stand", "house-ace":
		if err := b.requireHouse(ctx, gameID, user.ID); err != nil {
			return nil, err
		}
		switch sub.Name {
		case "house-hit":
			return actionResponse(b.games.HouseHit(ctx, gameID))
		case "house-stand":
			return actionResponse(b.games.HouseStand(ctx, gameID))
		default:
			return actionResponse(b.games.HouseChooseAce(ctx, gameID, int(opts.integer("index")), int(opts.integer("value"))))
		}

	case "status":
		view, err := b.games.GetGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return discord.NewResponse("", tableEmbed(view)), nil

	case "leave":
		result, err := b.games.DisconnectPlayer(ctx, gameID, user.ID)
		if err != nil {
			return nil, err
		}
		return leaveResponse(result), nil

	case "end":
		if err := b.games.DeleteGame(ctx, gameID); err != nil && !types.IsGameError(err, types.ErrNotFound) {
			return nil, err
		}
		b.channels.Unbind(i.ChannelID)
		return discord.NewResponse("🏁 The table is closed."), nil
	}

	return nil, types.Errorf(types.ErrValidation, "unknown subcommand %s", sub.Name)
}

func (b *Bot) handleCreate(ctx context.Context, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) (*discord.Response, error) {
	if gameID, err := b.channels.Lookup(i.ChannelID); err == nil {
		_, err := b.games.GetGame(ctx, gameID)
		switch {
		case err == nil:
			return nil, types.NewGameError(types.ErrIllegalState, "this channel already has a game, close it with /relancina end")
		case !types.IsGameError(err, types.ErrNotFound):
			return nil, err
		}
	}

	resolved := i.ApplicationCommandData().Resolved
	var roster []relancina.PlayerSpec
	for _, opt := range sub.Options {
		if opt.Type != discordgo.ApplicationCommandOptionUser {
			continue
		}
		id, _ := opt.Value.(string)
		roster = append(roster, relancina.PlayerSpec{ID: id, Name: displayName(resolved, id)})
	}

	view, err := b.games.CreateGame(ctx, roster)
	if err != nil {
		return nil, err
	}
	b.channels.Bind(i.ChannelID, view.ID)
	b.logger.Info("Channel %s now plays game %s", i.ChannelID, view.ID)

	return discord.NewResponse("🃏 New Relancina table! Place your bets with `/relancina bet`.", tableEmbed(view)), nil
}

// requireHouse rejects house actions from anyone but the house
func (b *Bot) requireHouse(ctx context.Context, gameID, userID string) error {
	view, err := b.games.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if view.HouseID != userID {
		return types.NewGameError(types.ErrIllegalState, "only the house can do that")
	}
	return nil
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}
	return &discordgo.User{}
}

func displayName(resolved *discordgo.ApplicationCommandInteractionDataResolved, id string) string {
	if resolved != nil {
		if u, ok := resolved.Users[id]; ok {
			if u.GlobalName != "" {
				return u.GlobalName
			}
			return u.Username
		}
	}
	return id
}

type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) options {
	m := make(options, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// integer reads an integer option, zero when absent
func (o options) integer(name string) int64 {
	opt, ok := o[name]
	if !ok {
		return 0
	}
	return opt.IntValue()
}
