// slash.go
package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PabloGalante/quip-agent/internal/app/chat"
	"github.com/PabloGalante/quip-agent/internal/domain"
)

// commandResult tells the input loop what to do after a slash command.
type commandResult int

const (
	resultContinue commandResult = iota // stay in the input loop
	resultExit                          // quit the program
	resultJoke                          // run a structured joke turn
)

// IsCommand returns true if input starts with a slash.
func IsCommand(input string) bool {
	return strings.HasPrefix(input, "/")
}

// parseCommand splits "/style Pun" into ("style", "Pun").
func parseCommand(input string) (cmd, arg string) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "/"))
	cmd, arg, _ = strings.Cut(trimmed, " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

// HandleCommand executes one slash command against the session. Preference
// commands update the session on the service so the next turn uses them.
func HandleCommand(ctx context.Context, svc *chat.Service, sessionID domain.SessionID, input string, out io.Writer) (commandResult, error) {
	cmd, arg := parseCommand(input)

	switch cmd {
	case "bye", "quit", "exit":
		fmt.Fprintln(out, "Goodbye")
		return resultExit, nil

	case "joke":
		return resultJoke, nil

	case "new":
		greeting, err := svc.ResetConversation(ctx, sessionID)
		if err != nil {
			return resultContinue, err
		}
		fmt.Fprintln(out, greeting.Content)
		return resultContinue, nil

	case "style":
		style, err := domain.ParseJokeStyle(arg)
		if err != nil {
			return resultContinue, err
		}
		return updatePrefs(ctx, svc, sessionID, out, func(p *domain.Preferences) { p.Style = style })

	case "topic":
		if arg == "" {
			return resultContinue, fmt.Errorf("usage: /topic <topic>")
		}
		return updatePrefs(ctx, svc, sessionID, out, func(p *domain.Preferences) { p.Topic = arg })

	case "length":
		length, err := domain.ParseJokeLength(arg)
		if err != nil {
			return resultContinue, err
		}
		return updatePrefs(ctx, svc, sessionID, out, func(p *domain.Preferences) { p.Length = length })

	case "temp":
		temp, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return resultContinue, fmt.Errorf("usage: /temp <0..1>")
		}
		return updatePrefs(ctx, svc, sessionID, out, func(p *domain.Preferences) { p.Temperature = temp })

	case "prefs":
		session, _, err := svc.GetSessionTimeline(ctx, sessionID, 0)
		if err != nil {
			return resultContinue, err
		}
		printPrefs(out, session.Prefs)
		return resultContinue, nil

	case "help":
		fmt.Fprintln(out, `Commands:
  /joke            Ask for a joke using the current preferences
  /new             Start a fresh conversation (preferences kept)
  /style <value>   Set joke style: One-liner, Pun, Dad joke, Knock-knock, Story
  /topic <value>   Set joke topic
  /length <value>  Set joke length: Short, Medium, Long
  /temp <value>    Set temperature, 0 to 1
  /prefs           Show current preferences
  /bye             Exit (also /quit, /exit)
  /help            Show this help`)
		return resultContinue, nil

	default:
		return resultContinue, fmt.Errorf("unknown command: /%s. Type /help for available commands", cmd)
	}
}

func updatePrefs(ctx context.Context, svc *chat.Service, sessionID domain.SessionID, out io.Writer, change func(*domain.Preferences)) (commandResult, error) {
	session, _, err := svc.GetSessionTimeline(ctx, sessionID, 0)
	if err != nil {
		return resultContinue, err
	}

	prefs := session.Prefs
	change(&prefs)

	updated, err := svc.UpdatePreferences(ctx, chat.UpdatePreferencesInput{
		SessionID: sessionID,
		Prefs:     prefs,
	})
	if err != nil {
		return resultContinue, err
	}

	printPrefs(out, updated.Prefs)
	return resultContinue, nil
}

func printPrefs(out io.Writer, p domain.Preferences) {
	fmt.Fprintf(out, "style=%s topic=%s length=%s temp=%.2f\n", p.Style, p.Topic, p.Length, p.Temperature)
}
