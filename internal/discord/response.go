package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/relancina/internal/types"
)

// ResponseEmoji maps error codes to the emoji shown in front of the message
var ResponseEmoji = map[types.ErrorCode]string{
	types.ErrNotFound:          "🔍",
	types.ErrValidation:        "❗",
	types.ErrIllegalState:      "⏳",
	types.ErrResourceExhausted: "🃏",
	types.ErrInternalError:     "💥",
	types.ErrDatabaseError:     "💾",
}

// Response represents a Discord interaction response
type Response struct {
	Content   string
	Embeds    []*discordgo.MessageEmbed
	Ephemeral bool
}

// NewResponse creates a public Response
func NewResponse(content string, embeds ...*discordgo.MessageEmbed) *Response {
	return &Response{
		Content: content,
		Embeds:  embeds,
	}
}

// NewEphemeralResponse creates a Response only the invoking user sees
func NewEphemeralResponse(content string) *Response {
	return &Response{
		Content:   content,
		Ephemeral: true,
	}
}

// NewErrorResponse turns err into an ephemeral reply prefixed with the emoji
// for its code
func NewErrorResponse(err error) *Response {
	var gameErr *types.GameError
	if types.As(err, &gameErr) {
		emoji := ResponseEmoji[gameErr.Code]
		if emoji == "" {
			emoji = "❌"
		}
		return NewEphemeralResponse(fmt.Sprintf("%s %s", emoji, gameErr.Message))
	}
	return NewEphemeralResponse(fmt.Sprintf("❌ An error occurred: %v", err))
}

// SendResponse answers an interaction with r
func SendResponse(s SessionHandler, i *discordgo.InteractionCreate, r *Response) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: r.Content,
			Embeds:  r.Embeds,
			Flags:   getFlags(r.Ephemeral),
		},
	})
}

// SendErrorResponse answers an interaction with an error reply
func SendErrorResponse(s SessionHandler, i *discordgo.InteractionCreate, err error) error {
	return SendResponse(s, i, NewErrorResponse(err))
}

func getFlags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}
