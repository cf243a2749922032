package content

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/logger"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/openai"
)

// Generator produces count category-appropriate content strings or fails.
// No internal retries; retry policy belongs to the caller.
type Generator interface {
	Generate(ctx context.Context, category types.ContentCategory, count int, contextText string) ([]string, error)
}

const (
	minContentRunes = 8
	maxContentRunes = 300
)

// OpenAIGenerator asks the model for a strict JSON batch and validates the
// shape of every returned string. Malformed output is an error, never
// content.
type OpenAIGenerator struct {
	log    *logger.Logger
	client openai.Client
	class  types.ContentClass
}

func NewOpenAIGenerator(baseLog *logger.Logger, client openai.Client, class types.ContentClass) *OpenAIGenerator {
	return &OpenAIGenerator{
		log:    baseLog.With("service", "OpenAIGenerator", "class", string(class)),
		client: client,
		class:  class,
	}
}

var batchSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"items": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required":             []string{"items"},
	"additionalProperties": false,
}

func (g *OpenAIGenerator) Generate(ctx context.Context, category types.ContentCategory, count int, contextText string) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", ErrMalformedOutput)
	}

	system := g.systemPrompt(category)
	user := g.userPrompt(category, count, contextText)

	obj, err := g.client.GenerateJSON(ctx, system, user, "content_batch", batchSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}

	rawItems, ok := obj["items"].([]any)
	if !ok || len(rawItems) == 0 {
		return nil, fmt.Errorf("%w: missing items array", ErrMalformedOutput)
	}

	items := make([]string, 0, len(rawItems))
	for _, raw := range rawItems {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string item", ErrMalformedOutput)
		}
		s = strings.TrimSpace(s)
		if err := validateShape(g.class, s); err != nil {
			return nil, err
		}
		items = append(items, s)
	}

	if len(items) > count {
		items = items[:count]
	}
	return items, nil
}

func (g *OpenAIGenerator) systemPrompt(category types.ContentCategory) string {
	switch g.class {
	case types.ClassQuestion:
		return "You write warm, open-ended conversation questions for families to answer together. " +
			"Each question must be a single sentence ending with a question mark, themed " + categoryTheme(category) + "."
	case types.ClassTodo:
		return "You write short, concrete bucket-list activities a family can do together. " +
			"Each item is one sentence, actionable, themed " + categoryTheme(category) + "."
	default:
		return "You write short family-friendly content."
	}
}

func (g *OpenAIGenerator) userPrompt(category types.ContentCategory, count int, contextText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Produce exactly %d distinct items", count)
	if category != "" {
		fmt.Fprintf(&b, " for the %s theme", category)
	}
	b.WriteString(". Return them in the items array, one string each, no numbering.")
	if strings.TrimSpace(contextText) != "" {
		b.WriteString("\nPersonalize using this recent family activity:\n")
		b.WriteString(strings.TrimSpace(contextText))
	}
	return b.String()
}

func categoryTheme(category types.ContentCategory) string {
	switch category {
	case types.CategoryMemory:
		return "around shared memories and the past"
	case types.CategoryDaily:
		return "around today and everyday life"
	case types.CategoryFuture:
		return "around hopes, plans, and the future"
	case types.CategoryGratitude:
		return "around gratitude and appreciation"
	case types.CategoryTravel:
		return "around trips and places to visit"
	case types.CategoryActivity:
		return "around hands-on activities at home"
	case types.CategoryExperience:
		return "around events and experiences to share"
	case types.CategoryHobby:
		return "around hobbies to pick up together"
	case types.CategoryLearning:
		return "around learning something new together"
	case types.CategoryBonding:
		return "around strengthening family bonds"
	default:
		return "around family life in general"
	}
}

func validateShape(class types.ContentClass, s string) error {
	if s == "" {
		return fmt.Errorf("%w: blank item", ErrMalformedOutput)
	}
	n := utf8.RuneCountInString(s)
	if n < minContentRunes {
		return fmt.Errorf("%w: item too short (%d runes)", ErrMalformedOutput, n)
	}
	if n > maxContentRunes {
		return fmt.Errorf("%w: item too long (%d runes)", ErrMalformedOutput, n)
	}
	if class == types.ClassQuestion && !strings.HasSuffix(s, "?") {
		return fmt.Errorf("%w: question missing terminal question mark", ErrMalformedOutput)
	}
	return nil
}
