// Package caption turns a finished run's numbers into a short social-media
// caption. Strictly optional: callers log failures and move on.
package caption

import (
	"context"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Generator struct {
	cli oa.Client
}

func NewGenerator(apiKey string) *Generator {
	client := oa.NewClient(option.WithAPIKey(apiKey))
	return &Generator{cli: client}
}

// Caption asks for a caption for the rendered comparison. summary is a plain
// one-line description of the result, e.g.
// "₹10K monthly SIP since 2014 April: NIFTY 50 ₹28.4L (+42%), GOLD ₹24.1L (+21%)".
func (g *Generator) Caption(ctx context.Context, summary string) (string, error) {
	resp, err := g.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: "gpt-4",
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage("You write short Instagram Reel captions for personal-finance comparison videos. Two lines max, one insight, 3-5 relevant hashtags, no emojis in the first line, no financial advice."),
			oa.UserMessage("Write a caption for this result: " + summary),
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
