package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/relancina/internal/discord"
	"github.com/fadedpez/relancina/pkg/entities"
	"github.com/fadedpez/relancina/pkg/services/relancina"
)

const embedColor = 0x2e7d32

var outcomeEmoji = map[entities.Outcome]string{
	entities.OutcomeWin:    "🏆",
	entities.OutcomeLose:   "💸",
	entities.OutcomeTie:    "🤝",
	entities.OutcomeRefund: "↩️",
}

func mention(id string) string {
	return "<@" + id + ">"
}

func tableEmbed(view *relancina.GameView) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Relancina · round %d", view.Round),
		Description: fmt.Sprintf("State: **%s**", view.State),
		Color:       embedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Deck %d · discard %d · reshuffles %d", view.Deck.Remaining, view.Deck.Discarded, view.Deck.Reshuffles),
		},
	}
	if view.CurrentPlayerID != "" {
		embed.Description += fmt.Sprintf("\nTurn: %s", mention(view.CurrentPlayerID))
	}

	for _, p := range view.Players {
		name := p.Name
		if p.IsHouse {
			name += " 🏦"
		}
		lines := []string{fmt.Sprintf("Credits %d · bet %d · %s", p.Credits, p.Bet, p.Status)}
		if len(p.Hand) > 0 {
			line := discord.FormatHand(p.Hand)
			if p.Analysis != nil {
				line += " = " + describe(*p.Analysis)
			}
			lines = append(lines, line)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   name,
			Value:  strings.Join(lines, "\n"),
			Inline: true,
		})
	}
	return embed
}

// describe renders a score with its special, e.g. "20.5 (TWENTY_POINT_FIVE)"
func describe(a relancina.HandAnalysis) string {
	out := a.Score.String()
	switch {
	case a.IsBust:
		out += " 💥 bust"
	case a.Special != relancina.SpecialNone:
		out += fmt.Sprintf(" (%s)", a.Special)
	}
	return out
}

func startResponse(result *relancina.StartResult) *discord.Response {
	if !result.Started {
		return discord.NewResponse("⏳ Waiting for bets from " + mentions(result.AwaitingBets))
	}
	content := fmt.Sprintf("🃏 Cards are out! The house is %s.", mention(result.HouseID))
	if result.NaturalHouse {
		content += " A natural 21 took the bank!"
	}
	return discord.NewResponse(content, tableEmbed(result.Game))
}

func actionResponse(result *relancina.ActionResult, err error) (*discord.Response, error) {
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**: %s = %s", result.Name, discord.FormatHand(result.Hand), describe(result.Analysis))
	if result.Card != nil {
		fmt.Fprintf(&b, " (drew %s)", discord.FormatCard(*result.Card))
	}
	if len(result.OldHand) > 0 {
		fmt.Fprintf(&b, " (was %s)", discord.FormatHand(result.OldHand))
	}

	switch {
	case result.NextPlayerID != "":
		fmt.Fprintf(&b, "\nNext up: %s", mention(result.NextPlayerID))
	case result.State == entities.StateHouseTurn:
		b.WriteString("\nThe house plays now.")
	}

	if result.Resolution != nil {
		return discord.NewResponse(b.String(), resolutionEmbed(result.Resolution)), nil
	}
	return discord.NewResponse(b.String()), nil
}

func resolutionEmbed(res *relancina.Resolution) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Round %d settled", res.Round),
		Description: fmt.Sprintf("%s: %d won, %d lost, %d tied, %d refunded",
			res.Reason, res.Winners, res.Losers, res.Ties, res.Refunds),
		Color: embedColor,
	}
	if res.House.PlayerID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  res.House.Name + " 🏦",
			Value: fmt.Sprintf("%s · net %+d · %d credits", res.House.Score, res.House.Net, res.House.NewCredits),
		})
	}
	for _, r := range res.Results {
		value := fmt.Sprintf("%s %s · %+d · %d credits", outcomeEmoji[r.Outcome], r.Outcome, r.CreditsChange, r.NewCredits)
		if r.Multiplier > 1 {
			value += fmt.Sprintf(" · x%d", r.Multiplier)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   r.Name,
			Value:  value,
			Inline: true,
		})
	}
	if len(res.Eliminated) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Out of credits",
			Value: mentions(res.Eliminated),
		})
	}
	return embed
}

func leaveResponse(result *relancina.DisconnectResult) *discord.Response {
	content := fmt.Sprintf("👋 **%s** left the table", result.Name)
	if result.Forfeited > 0 {
		content += fmt.Sprintf(" and forfeits %d", result.Forfeited)
	}
	content += "."
	if result.Resolution != nil {
		return discord.NewResponse(content, resolutionEmbed(result.Resolution))
	}
	return discord.NewResponse(content)
}

func mentions(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = mention(id)
	}
	return strings.Join(out, ", ")
}
