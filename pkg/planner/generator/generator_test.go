package generator_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/content-planner/pkg/planner"
	"github.com/tendant/content-planner/pkg/planner/generator"
)

func ptr(s string) *string { return &s }

func TestExtractTopic(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"How to Bake Bread", "Bake Bread"},
		{"Why Cats Purr - A Study", "Cats Purr"},
		{"My Trip", "My Trip"},
		{"how TO fix a bike", "fix a bike"},
		{"The Best Pizza: Ranked", "Best Pizza"},
		{"An Apple a Day", "Apple a Day"},
		{"A-ha moments", "A"},
		{"  Whatever works  ", "Whatever works"},
		{"Theory of Everything", "Theory of Everything"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, generator.ExtractTopic(tt.title))
		})
	}
}

func TestGenerateStructuralInvariants(t *testing.T) {
	g := generator.New()
	ctx := context.Background()

	items := []planner.ContentItem{
		{Title: "How to Bake Bread", Platform: planner.PlatformYouTube, Notes: ptr("Sourdough basics"), Tags: ptr("baking, Bread, #sourdough")},
		{Title: "Why Cats Purr - A Study", Platform: planner.PlatformFacebook},
		{Title: "My Trip", Platform: planner.PlatformInstagram, Tags: ptr("travel, travel, , TRAVEL")},
		{Title: "How to Juggle", Platform: planner.PlatformTikTok, Tags: ptr("a,b,c,d,e,f,g,h,i,j,k,l,m,n,o,p,q,r")},
	}

	for _, item := range items {
		t.Run(string(item.Platform), func(t *testing.T) {
			for i := 0; i < 50; i++ {
				out, err := g.Generate(ctx, item)
				require.NoError(t, err)

				assert.Len(t, out.TitleIdeas, 5)
				assert.LessOrEqual(t, len(out.Hashtags), 15)

				seen := make(map[string]bool)
				for _, h := range out.Hashtags {
					assert.True(t, strings.HasPrefix(h, "#"), h)
					assert.False(t, strings.HasPrefix(h, "##"), h)
					assert.False(t, seen[h], "duplicate hashtag %s", h)
					seen[h] = true
				}

				assert.Contains(t, out.Description, strings.Join(out.Hashtags, " "))
				assert.Contains(t, generator.PinnedComments(item.Platform), out.PinnedComment)
			}
		})
	}
}

func TestGenerateTitleIdeasComeFromCatalogue(t *testing.T) {
	g := generator.New()
	item := planner.ContentItem{Title: "How to Bake Bread", Platform: planner.PlatformYouTube}

	expected := make(map[string]bool)
	for _, tmpl := range generator.TitleTemplates() {
		expected[strings.ReplaceAll(tmpl, "{topic}", "Bake Bread")] = true
	}

	for i := 0; i < 100; i++ {
		out, err := g.Generate(context.Background(), item)
		require.NoError(t, err)

		used := make(map[string]bool)
		for _, idea := range out.TitleIdeas {
			assert.True(t, expected[idea], "unexpected title idea %q", idea)
			assert.False(t, used[idea], "template repeated: %q", idea)
			used[idea] = true
		}
	}
}

func TestGenerateTitleSelectionVaries(t *testing.T) {
	g := generator.New(generator.WithSeed(42))
	item := planner.ContentItem{Title: "Coffee", Platform: planner.PlatformYouTube}

	firsts := make(map[string]bool)
	for i := 0; i < 200; i++ {
		out, err := g.Generate(context.Background(), item)
		require.NoError(t, err)
		firsts[out.TitleIdeas[0]] = true
	}
	assert.Len(t, firsts, len(generator.TitleTemplates()), "every template should lead at least once")
}

func TestGenerateTikTokExample(t *testing.T) {
	g := generator.New()
	item := planner.ContentItem{Title: "How to Juggle", Platform: planner.PlatformTikTok, Tags: ptr("juggling, circus")}

	allowed := map[string]bool{"#juggling": true, "#circus": true}
	for _, tag := range generator.BaselineHashtags(planner.PlatformTikTok) {
		allowed["#"+tag] = true
	}

	out, err := g.Generate(context.Background(), item)
	require.NoError(t, err)

	assert.Contains(t, generator.PinnedComments(planner.PlatformTikTok), out.PinnedComment)
	assert.Len(t, generator.PinnedComments(planner.PlatformTikTok), 4)
	// 2 user tags + 8 baseline tags, all selected
	assert.Len(t, out.Hashtags, 10)
	for _, h := range out.Hashtags {
		assert.True(t, allowed[h], "unexpected hashtag %s", h)
	}
	assert.Contains(t, out.Description, "Check out this content!")
	assert.True(t, strings.HasPrefix(out.Description, "How to Juggle\n\n"))
}

func TestGenerateWithoutTagsUsesBaseline(t *testing.T) {
	g := generator.New()

	for _, p := range planner.Platforms() {
		t.Run(string(p), func(t *testing.T) {
			out, err := g.Generate(context.Background(), planner.ContentItem{Title: "Anything", Platform: p})
			require.NoError(t, err)

			baseline := generator.BaselineHashtags(p)
			assert.GreaterOrEqual(t, len(baseline), 7)
			assert.LessOrEqual(t, len(baseline), 8)

			var got []string
			for _, h := range out.Hashtags {
				got = append(got, strings.TrimPrefix(h, "#"))
			}
			assert.ElementsMatch(t, baseline, got)
		})
	}
}

func TestGenerateCapsHashtagsAtFifteen(t *testing.T) {
	g := generator.New()
	tags := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		tags = append(tags, "tag"+string(rune('a'+i%26))+string(rune('a'+i/26)))
	}

	out, err := g.Generate(context.Background(), planner.ContentItem{
		Title:    "Lots of tags",
		Platform: planner.PlatformInstagram,
		Tags:     ptr(strings.Join(tags, ",")),
	})
	require.NoError(t, err)
	assert.Len(t, out.Hashtags, 15)
}

func TestGenerateNormalisesUserTags(t *testing.T) {
	g := generator.New()
	out, err := g.Generate(context.Background(), planner.ContentItem{
		Title:    "Tags",
		Platform: planner.PlatformFacebook,
		Tags:     ptr("#Viral, ##Cooking,  cooking , #"),
	})
	require.NoError(t, err)

	count := make(map[string]int)
	for _, h := range out.Hashtags {
		count[h]++
	}
	assert.Equal(t, 1, count["#viral"])
	assert.Equal(t, 1, count["#cooking"])
	assert.NotContains(t, out.Hashtags, "#")
	// 7 facebook baseline tags (viral included) + cooking
	assert.Len(t, out.Hashtags, 8)
}

func TestGenerateDescription(t *testing.T) {
	g := generator.New()

	t.Run("youtube embeds title and notes", func(t *testing.T) {
		out, err := g.Generate(context.Background(), planner.ContentItem{
			Title:    "How to Bake Bread",
			Platform: planner.PlatformYouTube,
			Notes:    ptr("Flour, water, salt."),
		})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(out.Description, "In this video, I dive deep into How to Bake Bread.\n\nFlour, water, salt.\n\n"))
		assert.True(t, strings.HasSuffix(out.Description, strings.Join(out.Hashtags, " ")+"\n\n#shorts #viral"))
	})

	t.Run("empty notes fall back", func(t *testing.T) {
		out, err := g.Generate(context.Background(), planner.ContentItem{
			Title:    "Sunset",
			Platform: planner.PlatformInstagram,
			Notes:    ptr(""),
		})
		require.NoError(t, err)
		assert.Equal(t,
			"Sunset\n\nCheck out this content!\n\nDouble tap if you agree! Save this for later.\n\n"+strings.Join(out.Hashtags, " "),
			out.Description)
	})

	t.Run("placeholders in user input are not expanded", func(t *testing.T) {
		out, err := g.Generate(context.Background(), planner.ContentItem{
			Title:    "{notes} and {tags}",
			Platform: planner.PlatformFacebook,
			Notes:    ptr("{title}"),
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out.Description, "{notes} and {tags}\n\n{title}\n\n"))
	})
}

func TestGenerateRejectsInvalidInput(t *testing.T) {
	g := generator.New()

	_, err := g.Generate(context.Background(), planner.ContentItem{Title: "Hello", Platform: "myspace"})
	assert.ErrorIs(t, err, planner.ErrInvalidPlatform)

	_, err = g.Generate(context.Background(), planner.ContentItem{Title: "  ", Platform: planner.PlatformTikTok})
	assert.ErrorIs(t, err, planner.ErrInvalidTitle)
}

func TestGenerateDoesNotMutateInput(t *testing.T) {
	g := generator.New()
	tags := "One, Two"
	item := planner.ContentItem{Title: "How to Juggle", Platform: planner.PlatformTikTok, Tags: &tags}
	before := item

	_, err := g.Generate(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, before, item)
	assert.Equal(t, "One, Two", tags)
}

func TestWithSeedIsReproducible(t *testing.T) {
	item := planner.ContentItem{Title: "How to Juggle", Platform: planner.PlatformTikTok, Tags: ptr("juggling, circus")}

	a, err := generator.New(generator.WithSeed(7)).Generate(context.Background(), item)
	require.NoError(t, err)
	b, err := generator.New(generator.WithSeed(7)).Generate(context.Background(), item)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateConcurrent(t *testing.T) {
	for _, g := range []*generator.Generator{generator.New(), generator.New(generator.WithSeed(1))} {
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					out, err := g.Generate(context.Background(), planner.ContentItem{Title: "Concurrency", Platform: planner.PlatformYouTube})
					assert.NoError(t, err)
					assert.Len(t, out.TitleIdeas, 5)
				}
			}()
		}
		wg.Wait()
	}
}

func TestCatalogueAccessorsReturnCopies(t *testing.T) {
	tags := generator.BaselineHashtags(planner.PlatformYouTube)
	tags[0] = "mutated"
	assert.NotEqual(t, "mutated", generator.BaselineHashtags(planner.PlatformYouTube)[0])

	templates := generator.TitleTemplates()
	assert.Len(t, templates, 10)
	templates[0] = "mutated"
	assert.NotEqual(t, "mutated", generator.TitleTemplates()[0])

	assert.Nil(t, generator.BaselineHashtags("myspace"))
}
