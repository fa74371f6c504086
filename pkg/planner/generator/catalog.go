package generator

import "github.com/tendant/content-planner/pkg/planner"

// Fallback for {notes} when an item has no notes.
const defaultNotes = "Check out this content!"

var titleTemplates = [...]string{
	"How to {topic} (Complete Guide)",
	"{topic} - What You Need to Know",
	"The Truth About {topic}",
	"{topic} Explained in Simple Terms",
	"Why {topic} Matters More Than You Think",
	"{topic}: Tips That Actually Work",
	"Stop Making These {topic} Mistakes",
	"The Ultimate {topic} Tutorial",
	"I Tried {topic} For a Week - Here's What Happened",
	"{topic} 101: Everything Beginners Should Know",
}

// platformCatalog holds the fixed per-platform tables. Values are never
// mutated after package initialisation.
type platformCatalog struct {
	hashtags    []string
	description string
	comments    []string
}

var catalogs = map[planner.Platform]platformCatalog{
	planner.PlatformYouTube: {
		hashtags: []string{"youtube", "youtuber", "subscribe", "video", "viral", "trending", "creator", "content"},
		description: "In this video, I dive deep into {title}.\n\n{notes}\n\n" +
			"Make sure to LIKE, SUBSCRIBE, and hit the notification bell to stay updated!\n\n{tags}\n\n#shorts #viral",
		comments: []string{
			"Want more content like this? Let me know in the replies!",
			"Which part was most helpful? Comment below!",
			"Drop a comment if you learned something new today!",
			"Questions? Ask below and I'll reply!",
		},
	},
	planner.PlatformFacebook: {
		hashtags:    []string{"facebook", "fbpost", "socialmedia", "share", "community", "viral", "trending"},
		description: "{title}\n\n{notes}\n\nWhat do you think? Drop your thoughts in the comments!\n\n{tags}",
		comments: []string{
			"Share this with someone who needs to see it!",
			"Tag a friend who would love this!",
			"What's your experience with this? Let me know!",
		},
	},
	planner.PlatformInstagram: {
		hashtags:    []string{"instagram", "instagood", "instadaily", "reels", "explore", "viral", "trending", "photooftheday"},
		description: "{title}\n\n{notes}\n\nDouble tap if you agree! Save this for later.\n\n{tags}",
		comments: []string{
			"Save this post for later!",
			"Tag someone who needs to see this!",
			"Drop an emoji if this resonated with you!",
		},
	},
	planner.PlatformTikTok: {
		hashtags:    []string{"tiktok", "fyp", "foryou", "foryoupage", "viral", "trending", "tiktokviral", "tiktoktrend"},
		description: "{title}\n\n{notes}\n\nFollow for more content like this!\n\n{tags}",
		comments: []string{
			"Follow for Part 2!",
			"Save this for later!",
			"Stitch this with your thoughts!",
			"Duet this with your reaction!",
		},
	},
}

// TitleTemplates returns a copy of the title template catalogue.
func TitleTemplates() []string {
	return append([]string(nil), titleTemplates[:]...)
}

// BaselineHashtags returns a copy of the platform's baseline tags, without
// the leading '#'. It returns nil for an unknown platform.
func BaselineHashtags(p planner.Platform) []string {
	c, ok := catalogs[p]
	if !ok {
		return nil
	}
	return append([]string(nil), c.hashtags...)
}

// PinnedComments returns a copy of the platform's pinned comment catalogue.
func PinnedComments(p planner.Platform) []string {
	c, ok := catalogs[p]
	if !ok {
		return nil
	}
	return append([]string(nil), c.comments...)
}
