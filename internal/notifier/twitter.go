package notifier

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
)

const tweetLimit = 280

// StatusUpdater posts a status; satisfied by *twitter.StatusService
type StatusUpdater interface {
	Update(status string, params *twitter.StatusUpdateParams) (*twitter.Tweet, *http.Response, error)
}

// TwitterNotifier posts the menu to Twitter
type TwitterNotifier struct {
	statuses StatusUpdater
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{statuses: client.Statuses}, nil
}

// Notify posts text as a single tweet, truncated to the character limit
func (n *TwitterNotifier) Notify(ctx context.Context, text string) error {
	if _, _, err := n.statuses.Update(formatTweet(text), nil); err != nil {
		return fmt.Errorf("failed to post tweet: %w", err)
	}
	return nil
}

// formatTweet strips the Markdown bold markers and truncates to 280 characters
func formatTweet(text string) string {
	tweet := strings.TrimSpace(strings.ReplaceAll(text, "*", ""))
	tweet += "\n\n#RUUFC #Cardapio"

	runes := []rune(tweet)
	if len(runes) > tweetLimit {
		tweet = string(runes[:tweetLimit-3]) + "..."
	}

	return tweet
}
