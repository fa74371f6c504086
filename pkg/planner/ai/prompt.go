// Package ai implements planner.AIGenerator on top of hosted language models.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tendant/content-planner/pkg/planner"
)

const noneProvided = "None provided"

// BuildPrompt renders the generation prompt for item. Both providers send the
// same text.
func BuildPrompt(item planner.ContentItem) string {
	notes := planner.StringValue(item.Notes)
	if notes == "" {
		notes = noneProvided
	}
	tags := planner.StringValue(item.Tags)
	if tags == "" {
		tags = noneProvided
	}
	p := string(item.Platform)

	var b strings.Builder
	fmt.Fprintf(&b, "You are a social media content expert. Generate content for a %s post.\n\n", p)
	fmt.Fprintf(&b, "Title/Topic: %s\n", item.Title)
	fmt.Fprintf(&b, "Platform: %s\n", p)
	fmt.Fprintf(&b, "Additional Notes: %s\n", notes)
	fmt.Fprintf(&b, "Tags/Keywords: %s\n\n", tags)
	b.WriteString("Generate the following in JSON format (no markdown, just pure JSON):\n")
	b.WriteString("{\n")
	b.WriteString("  \"titleIdeas\": [\"5 engaging title variations for this content\"],\n")
	fmt.Fprintf(&b, "  \"description\": \"A compelling description/caption for %s (include relevant emojis, call-to-action)\",\n", p)
	b.WriteString("  \"hashtags\": [\"15 relevant hashtags without the # symbol\"],\n")
	b.WriteString("  \"pinnedComment\": \"An engaging pinned comment to boost engagement\"\n")
	b.WriteString("}\n\n")
	b.WriteString("Make the content:\n")
	fmt.Fprintf(&b, "- Platform-appropriate (%s style and best practices)\n", p)
	b.WriteString("- Engaging and attention-grabbing\n")
	b.WriteString("- Include relevant emojis where appropriate\n")
	b.WriteString("- Optimized for the platform's algorithm\n\n")
	b.WriteString("Return ONLY the JSON object, no other text.")
	return b.String()
}

type rawGenerated struct {
	TitleIdeas    []string `json:"titleIdeas"`
	Description   *string  `json:"description"`
	Hashtags      []string `json:"hashtags"`
	PinnedComment *string  `json:"pinnedComment"`
}

// ParseGenerated extracts the outermost JSON object from a model answer and
// normalises it. Surrounding prose or markdown fences are ignored.
func ParseGenerated(text string) (*planner.GeneratedContent, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in response", planner.ErrMalformedResponse)
	}

	var raw rawGenerated
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", planner.ErrMalformedResponse, err)
	}

	switch {
	case len(raw.TitleIdeas) == 0:
		return nil, fmt.Errorf("%w: missing titleIdeas", planner.ErrMalformedResponse)
	case raw.Description == nil:
		return nil, fmt.Errorf("%w: missing description", planner.ErrMalformedResponse)
	case raw.Hashtags == nil:
		return nil, fmt.Errorf("%w: missing hashtags", planner.ErrMalformedResponse)
	case raw.PinnedComment == nil:
		return nil, fmt.Errorf("%w: missing pinnedComment", planner.ErrMalformedResponse)
	}

	hashtags := make([]string, 0, len(raw.Hashtags))
	for _, tag := range raw.Hashtags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		hashtags = append(hashtags, tag)
	}

	return &planner.GeneratedContent{
		TitleIdeas:    raw.TitleIdeas,
		Description:   *raw.Description,
		Hashtags:      hashtags,
		PinnedComment: *raw.PinnedComment,
	}, nil
}
