// Package personality catalogs the conversational styles a chat can be
// created with. The set offered to users is closed, but tags read back from
// the backend are open-ended and must always render.
package personality

import "strings"

// Built-in personality tags.
const (
	Friend     = "friend"
	Girlfriend = "girlfriend"
	Guide      = "guide"
	Bully      = "bully"
)

// Default is preselected when creating a chat.
const Default = Friend

// Fallback is displayed for chats whose tag is missing.
const Fallback = "general"

// Option is a selectable personality.
type Option struct {
	Tag   string
	Label string
}

var options = []Option{
	{Tag: Friend, Label: "Friend"},
	{Tag: Girlfriend, Label: "Girlfriend"},
	{Tag: Guide, Label: "Mentor"},
	{Tag: Bully, Label: "Bully"},
}

// Options returns the personalities offered when creating a chat, in
// display order.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// Tags returns the allowed tag values.
func Tags() []string {
	tags := make([]string, len(options))
	for i, o := range options {
		tags[i] = o.Tag
	}
	return tags
}

// Normalize lowercases and trims a tag.
func Normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Valid reports whether tag is one of the built-in personalities.
func Valid(tag string) bool {
	tag = Normalize(tag)
	for _, o := range options {
		if o.Tag == tag {
			return true
		}
	}
	return false
}

// Label returns the display label for tag. Known tags use their catalog
// label, unknown tags are shown with underscores as spaces, and an empty tag
// shows Fallback.
func Label(tag string) string {
	norm := Normalize(tag)
	if norm == "" {
		return Fallback
	}
	for _, o := range options {
		if o.Tag == norm {
			return o.Label
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(tag), "_", " ")
}

// OrDefault returns tag when it is valid and Default otherwise.
func OrDefault(tag string) string {
	if Valid(tag) {
		return Normalize(tag)
	}
	return Default
}
