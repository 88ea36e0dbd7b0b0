package domain

import "fmt"

// Message is a single stored conversation entry. Order of insertion is the
// conversation order; the first message of a session is always an assistant
// greeting.
type Message struct {
	ID        MessageID
	SessionID SessionID
	Role      Role
	Content   string
	CreatedAt Timestamp
}

// Session is one interactive conversation with the joke bot. It exclusively
// owns its message history and generation preferences; nothing is shared
// across sessions.
type Session struct {
	ID        SessionID
	CreatedAt Timestamp
	UpdatedAt Timestamp

	Prefs Preferences

	// APIKey optionally overrides the process-wide completion credential for
	// this session only. Treated as a secret: never logged, never returned
	// in responses.
	APIKey string
}

// Preferences are the user-tunable generation controls. They shape prompt
// construction and the sampling temperature; the pipeline reads them but
// never mutates them.
type Preferences struct {
	Style       JokeStyle
	Topic       string
	Length      JokeLength
	Temperature float64
}

// DefaultPreferences returns the controls as they appear at session start.
func DefaultPreferences() Preferences {
	return Preferences{
		Style:       StyleOneLiner,
		Topic:       "Python",
		Length:      LengthShort,
		Temperature: 0.8,
	}
}

// Validate checks enum membership and the [0,1] temperature range.
func (p Preferences) Validate() error {
	if _, err := ParseJokeStyle(string(p.Style)); err != nil {
		return err
	}
	if _, err := ParseJokeLength(string(p.Length)); err != nil {
		return err
	}
	if p.Temperature < 0 || p.Temperature > 1 {
		return fmt.Errorf("%w: temperature %v outside [0,1]", ErrInvalidPreferences, p.Temperature)
	}
	return nil
}
