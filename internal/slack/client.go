package slack

import (
	"fmt"

	"github.com/slack-go/slack"
)

// Messenger is the slice of the Slack API the handlers use.
type Messenger interface {
	SendMessage(channelID, message string) error
	PostMessage(channelID, message string) (string, error)
	BotID() string
}

type Client struct {
	api   *slack.Client
	botID string
}

func NewClient(token string) (*Client, error) {
	api := slack.New(token)

	authTest, err := api.AuthTest()
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Slack: %w", err)
	}

	return &Client{
		api:   api,
		botID: authTest.UserID,
	}, nil
}

func (c *Client) BotID() string {
	return c.botID
}

func (c *Client) SendMessage(channelID, message string) error {
	_, err := c.PostMessage(channelID, message)
	return err
}

// PostMessage sends message and returns its timestamp, which identifies the
// message in later reaction events.
func (c *Client) PostMessage(channelID, message string) (string, error) {
	_, timestamp, err := c.api.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
	)
	return timestamp, err
}
