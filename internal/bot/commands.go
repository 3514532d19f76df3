package bot

import (
	"github.com/bwmarrin/discordgo"
)

// CommandName is the single slash command; every action is a subcommand
const CommandName = "relancina"

var minBet = float64(200)

func subcommand(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options:     options,
	}
}

func userOption(name string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        name,
		Description: "A player at the table",
		Required:    required,
	}
}

func aceOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "index",
			Description: "Position of the Ace in the hand, starting at 0",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "value",
			Description: "Value to fix the Ace at",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "1", Value: 1},
				{Name: "11", Value: 11},
			},
		},
	}
}

// Commands defines all slash commands for the bot
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        CommandName,
		Description: "Play Relancina at this table",
		Options: []*discordgo.ApplicationCommandOption{
			subcommand("create", "Seat 3 to 5 players in this channel",
				userOption("player1", true),
				userOption("player2", true),
				userOption("player3", true),
				userOption("player4", false),
				userOption("player5", false),
			),
			subcommand("bet", "Wager for the next round",
				&discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Credits to wager, 200 to 5000",
					Required:    true,
					MinValue:    &minBet,
					MaxValue:    5000,
				},
			),
			subcommand("start", "Deal the round once everyone has bet"),
			subcommand("hit", "Draw a card"),
			subcommand("stand", "Keep your hand"),
			subcommand("change", "Swap a two-card 12 for a new hand"),
			subcommand("ace", "Fix one of your Aces at 1 or 11", aceOptions()...),
			subcommand("house-hit", "Draw a card for the house"),
			subcommand("house-stand", "Close the round as the house"),
			subcommand("house-ace", "Fix one of the house's Aces", aceOptions()...),
			subcommand("status", "Show the table"),
			subcommand("restart", "Start the next round with the same players"),
			subcommand("leave", "Leave the game, losing any live wager"),
			subcommand("end", "Close this channel's game"),
		},
	},
}
