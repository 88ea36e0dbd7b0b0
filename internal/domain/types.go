package domain

import (
	"fmt"
	"strings"
	"time"
)

type SessionID string
type MessageID string

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// JokeStyle holds the display value shown in UI controls. The lowercase form
// is only ever produced when rendering the structured trigger text.
type JokeStyle string

const (
	StyleOneLiner   JokeStyle = "One-liner"
	StylePun        JokeStyle = "Pun"
	StyleDadJoke    JokeStyle = "Dad joke"
	StyleKnockKnock JokeStyle = "Knock-knock"
	StyleStory      JokeStyle = "Story"
)

type JokeLength string

const (
	LengthShort  JokeLength = "Short"
	LengthMedium JokeLength = "Medium"
	LengthLong   JokeLength = "Long"
)

type Timestamp = time.Time

// ParseJokeStyle maps user-supplied text onto the closed style set.
func ParseJokeStyle(s string) (JokeStyle, error) {
	switch normalize(s) {
	case "one-liner", "oneliner", "one liner":
		return StyleOneLiner, nil
	case "pun":
		return StylePun, nil
	case "dad joke", "dad-joke", "dadjoke":
		return StyleDadJoke, nil
	case "knock-knock", "knockknock", "knock knock":
		return StyleKnockKnock, nil
	case "story":
		return StyleStory, nil
	default:
		return "", fmt.Errorf("%w: unknown joke style %q", ErrInvalidPreferences, s)
	}
}

// ParseJokeLength maps user-supplied text onto the closed length set.
func ParseJokeLength(s string) (JokeLength, error) {
	switch normalize(s) {
	case "short":
		return LengthShort, nil
	case "medium":
		return LengthMedium, nil
	case "long":
		return LengthLong, nil
	default:
		return "", fmt.Errorf("%w: unknown joke length %q", ErrInvalidPreferences, s)
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
