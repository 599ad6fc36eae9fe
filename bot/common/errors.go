package common

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError carries a message safe to show the user alongside the underlying
// error. Anything that is not a BotError surfaces as a generic apology.
type BotError struct {
	UserMessage string
	Err         error
}

func (e *BotError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

func (e *BotError) Unwrap() error {
	return e.Err
}

// NewBotError creates a user-visible error wrapping an underlying cause
func NewBotError(userMessage string, err error) *BotError {
	return &BotError{UserMessage: userMessage, Err: err}
}

// UserMessage extracts the user-facing text for an error
func UserMessage(err error) string {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr.UserMessage
	}
	return "Something went wrong. Please try again."
}

// HandleError logs the error and responds with its user-facing message
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, logMessage string) {
	log.WithError(err).Error(logMessage)
	RespondWithError(s, i, UserMessage(err))
}

// RespondWithError sends an ephemeral error response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "❌ " + message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: "❌ " + message,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}
