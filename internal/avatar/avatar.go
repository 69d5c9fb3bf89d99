// Package avatar derives the initials and the background colour that represent a contact in the
// list. Both are pure functions of the name, so a contact looks the same on every render.
package avatar

import "strings"

// Palette holds the avatar background colours.
var Palette = []string{
	"#FFC107",
	"#FF5722",
	"#2196F3",
	"#4CAF50",
	"#9C27B0",
	"#3F51B5",
}

// Initials returns the first letters of the first and the last word of name, or the first letter
// of name if it consists of a single word.
func Initials(name string) string {
	parts := strings.Split(name, " ")
	if len(parts) > 1 {
		return firstLetter(parts[0]) + firstLetter(parts[len(parts)-1])
	}
	return firstLetter(name)
}

// Color picks a palette entry from the sum of the character codes of name.
func Color(name string) string {
	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	return Palette[sum%len(Palette)]
}

func firstLetter(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
