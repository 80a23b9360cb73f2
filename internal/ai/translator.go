package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var ErrEmptyTranslation = errors.New("translator returned empty text")

// Translator переводит текст через chat completion.
type Translator struct {
	client *OpenAIClient
}

func NewTranslator(client *OpenAIClient) *Translator {
	return &Translator{client: client}
}

// Translate - коды языков двухбуквенные ("en", "es", "bho").
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a translation engine. Translate the user's text from language code %q to language code %q. "+
			"Reply with the translation only, without quotes, notes or transliteration.",
		sourceLang, targetLang,
	)

	out, err := t.client.GetCompletion(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: prompt},
		{Role: openai.ChatMessageRoleUser, Content: text},
	})
	if err != nil {
		return "", fmt.Errorf("translate %s->%s: %w", sourceLang, targetLang, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}
