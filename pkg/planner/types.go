package planner

import (
	"time"

	"github.com/google/uuid"
)

// Platform is the social network a content item is planned for.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
)

// Platforms returns the supported platforms in display order.
func Platforms() []Platform {
	return []Platform{PlatformYouTube, PlatformFacebook, PlatformInstagram, PlatformTikTok}
}

// Status is the planning state of a content item.
type Status string

const (
	StatusIdea   Status = "idea"
	StatusDraft  Status = "draft"
	StatusPosted Status = "posted"
)

// Statuses returns the supported statuses in lifecycle order.
func Statuses() []Status {
	return []Status{StatusIdea, StatusDraft, StatusPosted}
}

// SlotType identifies which generated artifact an output slot holds.
type SlotType string

const (
	SlotTypeTitle         SlotType = "title"
	SlotTypeDescription   SlotType = "description"
	SlotTypeHashtags      SlotType = "hashtags"
	SlotTypePinnedComment SlotType = "pinned_comment"
)

// ContentItem is a single planned social-media post.
//
// Notes, YTLink and Tags are optional; a nil pointer means the value was never
// set, which the generator and the CSV export treat the same as empty.
type ContentItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Platform  Platform  `json:"platform"`
	Status    Status    `json:"status"`
	Notes     *string   `json:"notes"`
	YTLink    *string   `json:"yt_link"`
	Tags      *string   `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LastModified returns UpdatedAt, falling back to CreatedAt for items that
// were never updated.
func (i *ContentItem) LastModified() time.Time {
	if i.UpdatedAt.IsZero() {
		return i.CreatedAt
	}
	return i.UpdatedAt
}

// GeneratedContent is the transient output of a generation call. It has no
// identity; callers own the returned value.
type GeneratedContent struct {
	TitleIdeas    []string `json:"titleIdeas"`
	Description   string   `json:"description"`
	Hashtags      []string `json:"hashtags"`
	PinnedComment string   `json:"pinnedComment"`
}

// ActionCenter groups a user's items into the dashboard digest buckets.
type ActionCenter struct {
	IdeasAndDrafts  []*ContentItem `json:"ideasAndDrafts"`
	RecentlyCreated []*ContentItem `json:"recentlyCreated"`
	Stale           []*ContentItem `json:"stale"`
}

// ItemFilter narrows item listings. Zero values mean "no constraint".
type ItemFilter struct {
	Platform *Platform   `json:"platform,omitempty"`
	Status   *Status     `json:"status,omitempty"`
	Query    string      `json:"query,omitempty"`
	IDs      []uuid.UUID `json:"-"`
	Limit    int         `json:"limit,omitempty"`
}

// SavedView is a named, reusable item filter.
type SavedView struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	Filter    ItemFilter `json:"filter"`
	IsDefault bool       `json:"is_default"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// OutputSlot stores one generated artifact against a content item.
type OutputSlot struct {
	ID            uuid.UUID `json:"id"`
	ContentItemID uuid.UUID `json:"content_item_id"`
	UserID        uuid.UUID `json:"user_id"`
	SlotType      SlotType  `json:"slot_type"`
	Content       string    `json:"content"`
	IsPinned      bool      `json:"is_pinned"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ExportArchive describes a CSV export written to a blob store.
type ExportArchive struct {
	Key         string    `json:"key"`
	Backend     string    `json:"backend"`
	FileName    string    `json:"file_name"`
	DownloadURL string    `json:"download_url,omitempty"`
	Rows        int       `json:"rows"`
	CreatedAt   time.Time `json:"created_at"`
}
