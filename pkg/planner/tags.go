package planner

import "strings"

// ParseTags splits a comma-separated tag list, trimming whitespace and
// dropping empty entries. Order is preserved and duplicates are kept.
func ParseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// MergeTags returns the ordered union of the existing tags and the tags to
// add, joined with ", ". Existing tags keep their position.
func MergeTags(existing *string, add string) string {
	var current []string
	if existing != nil {
		current = ParseTags(*existing)
	}
	seen := make(map[string]struct{}, len(current))
	merged := make([]string, 0, len(current))
	for _, t := range append(current, ParseTags(add)...) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		merged = append(merged, t)
	}
	return strings.Join(merged, ", ")
}

// Hashtag renders tag with exactly one leading '#'.
func Hashtag(tag string) string {
	return "#" + strings.TrimLeft(tag, "#")
}

// StringValue dereferences an optional string, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
