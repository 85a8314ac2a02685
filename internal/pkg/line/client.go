// Package line wraps the LINE Messaging API behind a small client
// interface so the dispatch workflow can be exercised against a mock.
package line

import "context"

// Client is the outbound LINE messaging surface used by the service.
type Client interface {
	// PushText sends one text message to a LINE user and returns the
	// provider-assigned message id when available.
	PushText(ctx context.Context, userID, text string) (string, error)

	// TestConnection verifies the channel credentials against the API.
	TestConnection(ctx context.Context) error
}

// Config holds the LINE channel credentials.
type Config struct {
	ChannelAccessToken string
	ChannelSecret      string
}

// ConfigStatus reports which credentials are present, without exposing
// their values.
type ConfigStatus struct {
	IsConfigured     bool `json:"isConfigured"`
	HasAccessToken   bool `json:"hasAccessToken"`
	HasChannelSecret bool `json:"hasChannelSecret"`
}

func (c Config) Status() ConfigStatus {
	return ConfigStatus{
		IsConfigured:     c.ChannelAccessToken != "" && c.ChannelSecret != "",
		HasAccessToken:   c.ChannelAccessToken != "",
		HasChannelSecret: c.ChannelSecret != "",
	}
}
