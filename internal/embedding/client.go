package embedding

import (
	"fmt"
	"os"

	"github.com/openai/openai-go"
)

// Client wraps the OpenAI client shared by embedding and answer generation.
type Client struct {
	api *openai.Client
}

// NewClient creates an OpenAI client. It requires OPENAI_API_KEY in the
// environment and fails fast when it is missing.
func NewClient() (*Client, error) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	// openai-go reads OPENAI_API_KEY from the environment
	api := openai.NewClient()

	return &Client{api: &api}, nil
}

// API returns the underlying OpenAI client for use by the answer generator.
func (c *Client) API() *openai.Client {
	return c.api
}
