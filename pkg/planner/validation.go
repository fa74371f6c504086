package planner

import (
	"fmt"
	"strings"
)

// IsValid reports whether p is one of the supported platforms.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformYouTube, PlatformFacebook, PlatformInstagram, PlatformTikTok:
		return true
	default:
		return false
	}
}

// IsValid reports whether s is one of the supported statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusIdea, StatusDraft, StatusPosted:
		return true
	default:
		return false
	}
}

// IsValid reports whether t is one of the supported slot types.
func (t SlotType) IsValid() bool {
	switch t {
	case SlotTypeTitle, SlotTypeDescription, SlotTypeHashtags, SlotTypePinnedComment:
		return true
	default:
		return false
	}
}

// ParsePlatform normalises s and validates it.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlatform, s)
	}
	return p, nil
}

// ParseStatus normalises s and validates it.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// ValidateForGeneration checks the generator preconditions: a non-empty
// title and a supported platform.
func ValidateForGeneration(item ContentItem) error {
	if strings.TrimSpace(item.Title) == "" {
		return ErrInvalidTitle
	}
	if !item.Platform.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPlatform, item.Platform)
	}
	return nil
}
