// Package generator builds captions, hashtags, title ideas and a pinned
// comment for a content item from fixed per-platform templates.
//
// Output is random across calls. Within one call the description embeds
// exactly the returned hashtags, joined by a single space.
package generator

import (
	"context"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"

	"github.com/tendant/content-planner/pkg/planner"
)

const (
	titleIdeaCount = 5
	maxHashtags    = 15
)

var (
	leadingWordRe = regexp.MustCompile(`(?i)^(how to|why|what|the|a|an)\s+`)
	subtitleRe    = regexp.MustCompile(`\s*[-:]\s*.*`)
)

// Generator implements planner.Generator. The zero value is not usable; use New.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand // nil uses the runtime's global source
}

// Option configures a Generator
type Option func(*Generator)

// WithSeed makes the output reproducible for a given sequence of calls.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ planner.Generator = (*Generator)(nil)

// Generate returns five title ideas, a platform description, up to fifteen
// hashtags and a pinned comment for item.
func (g *Generator) Generate(ctx context.Context, item planner.ContentItem) (*planner.GeneratedContent, error) {
	if err := planner.ValidateForGeneration(item); err != nil {
		return nil, err
	}
	catalog := catalogs[item.Platform]

	titleIdeas := g.titleIdeas(ExtractTopic(item.Title))
	hashtags := g.hashtags(catalog.hashtags, planner.StringValue(item.Tags))

	notes := planner.StringValue(item.Notes)
	if notes == "" {
		notes = defaultNotes
	}
	description := strings.NewReplacer(
		"{title}", item.Title,
		"{notes}", notes,
		"{tags}", strings.Join(hashtags, " "),
	).Replace(catalog.description)

	return &planner.GeneratedContent{
		TitleIdeas:    titleIdeas,
		Description:   description,
		Hashtags:      hashtags,
		PinnedComment: catalog.comments[g.intN(len(catalog.comments))],
	}, nil
}

// ExtractTopic strips a leading "how to", "why", "what", "the", "a" or "an"
// and everything from the first '-' or ':' onwards.
func ExtractTopic(title string) string {
	topic := leadingWordRe.ReplaceAllString(title, "")
	if loc := subtitleRe.FindStringIndex(topic); loc != nil {
		topic = topic[:loc[0]]
	}
	return strings.TrimSpace(topic)
}

func (g *Generator) titleIdeas(topic string) []string {
	order := g.perm(len(titleTemplates))
	ideas := make([]string, 0, titleIdeaCount)
	for _, i := range order[:titleIdeaCount] {
		ideas = append(ideas, strings.ReplaceAll(titleTemplates[i], "{topic}", topic))
	}
	return ideas
}

func (g *Generator) hashtags(baseline []string, rawTags string) []string {
	seen := make(map[string]struct{})
	pool := make([]string, 0, len(baseline)+4)
	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		pool = append(pool, tag)
	}
	for _, t := range planner.ParseTags(rawTags) {
		if t = strings.ToLower(strings.TrimSpace(strings.TrimLeft(t, "#"))); t != "" {
			add(t)
		}
	}
	for _, t := range baseline {
		add(t)
	}

	g.shuffle(pool)
	if len(pool) > maxHashtags {
		pool = pool[:maxHashtags]
	}
	for i, t := range pool {
		pool[i] = planner.Hashtag(t)
	}
	return pool
}

func (g *Generator) perm(n int) []int {
	if g.rng == nil {
		return rand.Perm(n)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Perm(n)
}

func (g *Generator) shuffle(s []string) {
	swap := func(i, j int) { s[i], s[j] = s[j], s[i] }
	if g.rng == nil {
		rand.Shuffle(len(s), swap)
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rng.Shuffle(len(s), swap)
}

func (g *Generator) intN(n int) int {
	if g.rng == nil {
		return rand.IntN(n)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}
