package line

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// SDKClient implements Client on top of the official LINE bot SDK.
type SDKClient struct {
	api *messaging_api.MessagingApiAPI
}

// NewSDKClient builds a client for the given channel token. sendTimeout
// bounds every outbound HTTP call; the old behavior of waiting forever on
// a hung send is deliberately not preserved.
func NewSDKClient(cfg Config, sendTimeout time.Duration) (*SDKClient, error) {
	if cfg.ChannelAccessToken == "" {
		return nil, errors.New("LINE channel access token is not configured")
	}

	api, err := messaging_api.NewMessagingApiAPI(
		cfg.ChannelAccessToken,
		messaging_api.WithHTTPClient(&http.Client{Timeout: sendTimeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build LINE messaging client: %w", err)
	}

	return &SDKClient{api: api}, nil
}

func (c *SDKClient) PushText(ctx context.Context, userID, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	resp, err := c.api.PushMessage(&messaging_api.PushMessageRequest{
		To: userID,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	}, "")
	if err != nil {
		return "", err
	}

	if len(resp.SentMessages) > 0 {
		return resp.SentMessages[0].Id, nil
	}
	return "", nil
}

func (c *SDKClient) TestConnection(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.api.GetBotInfo(); err != nil {
		return fmt.Errorf("LINE connection test failed: %w", err)
	}
	return nil
}
