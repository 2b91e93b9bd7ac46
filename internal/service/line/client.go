// Package line implements the messaging channel client. Only the push
// message endpoint is used; replies to webhook events go out as pushes to
// the sender, which keeps delivery independent of reply token expiry.
package line

import (
	"context"
	"fmt"
	"time"

	"ChipFlash/pkg/logger"

	"github.com/go-resty/resty/v2"
)

const pushPath = "/v2/bot/message/push"

// Client implements repository.MessagePusher against the LINE Messaging API.
type Client struct {
	client *resty.Client
	log    *logger.Logger
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewClient(apiBase, channelToken string, timeout time.Duration, log *logger.Logger) *Client {
	client := resty.New().
		SetBaseURL(apiBase).
		SetTimeout(timeout).
		SetAuthToken(channelToken).
		SetHeader("Content-Type", "application/json")
	return &Client{client: client, log: log}
}

// Push sends one text message to a user or group ID. An error means the
// channel did not accept the message; callers treat acceptance as delivery.
func (c *Client) Push(ctx context.Context, to string, text string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(pushRequest{
			To:       to,
			Messages: []textMessage{{Type: "text", Text: text}},
		}).
		Post(pushPath)
	if err != nil {
		return fmt.Errorf("line push: %w", err)
	}
	if !resp.IsSuccess() {
		c.log.Error("line push rejected",
			logger.Int("status", resp.StatusCode()),
			logger.String("body", resp.String()))
		return fmt.Errorf("line push: status %d", resp.StatusCode())
	}
	return nil
}
