// slash_test.go
package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PabloGalante/quip-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/quip-agent/internal/app/chat"
	"github.com/PabloGalante/quip-agent/internal/domain"
)

// cannedClient answers every completion with a fixed reply, or fails.
type cannedClient struct {
	reply string
	err   error
}

func (c *cannedClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func newTestSession(t *testing.T, client domain.CompletionClient) (*chat.Service, domain.SessionID) {
	t.Helper()

	svc := chat.NewService(client, memory.NewSessionStore(), memory.NewMessageStore())
	out, err := svc.StartSession(context.Background(), chat.StartSessionInput{})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	return svc, out.Session.ID
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		wantCmd  string
		wantArg  string
	}{
		{"/joke", "joke", ""},
		{"/style Pun", "style", "Pun"},
		{"/STYLE Dad joke", "style", "Dad joke"},
		{"  /topic  regular expressions  ", "topic", "regular expressions"},
		{"/temp 0.3", "temp", "0.3"},
	}

	for _, tt := range tests {
		cmd, arg := parseCommand(tt.input)
		if cmd != tt.wantCmd || arg != tt.wantArg {
			t.Errorf("parseCommand(%q) = (%q, %q), want (%q, %q)", tt.input, cmd, arg, tt.wantCmd, tt.wantArg)
		}
	}
}

func TestIsCommand(t *testing.T) {
	if !IsCommand("/help") {
		t.Error("IsCommand(/help) = false")
	}
	if IsCommand("tell me a joke") {
		t.Error("IsCommand(plain text) = true")
	}
}

func TestHandleCommand_ExitCommands(t *testing.T) {
	svc, id := newTestSession(t, &cannedClient{reply: "ha"})

	for _, cmd := range []string{"/bye", "/quit", "/exit"} {
		var out bytes.Buffer
		result, err := HandleCommand(context.Background(), svc, id, cmd, &out)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", cmd, err)
		}
		if result != resultExit {
			t.Errorf("%s: result = %v, want resultExit", cmd, result)
		}
	}
}

func TestHandleCommand_Joke(t *testing.T) {
	svc, id := newTestSession(t, &cannedClient{reply: "ha"})

	var out bytes.Buffer
	result, err := HandleCommand(context.Background(), svc, id, "/joke", &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != resultJoke {
		t.Errorf("result = %v, want resultJoke", result)
	}
}

func TestHandleCommand_PreferenceUpdates(t *testing.T) {
	svc, id := newTestSession(t, &cannedClient{reply: "ha"})
	ctx := context.Background()

	for _, cmd := range []string{"/style Pun", "/topic Git", "/length Long", "/temp 0.3"} {
		var out bytes.Buffer
		if _, err := HandleCommand(ctx, svc, id, cmd, &out); err != nil {
			t.Fatalf("%s failed: %v", cmd, err)
		}
	}

	session, _, err := svc.GetSessionTimeline(ctx, id, 0)
	if err != nil {
		t.Fatalf("GetSessionTimeline failed: %v", err)
	}

	want := domain.Preferences{
		Style:       domain.StylePun,
		Topic:       "Git",
		Length:      domain.LengthLong,
		Temperature: 0.3,
	}
	if session.Prefs != want {
		t.Errorf("prefs = %+v, want %+v", session.Prefs, want)
	}
}

func TestHandleCommand_InvalidPreferenceValues(t *testing.T) {
	svc, id := newTestSession(t, &cannedClient{reply: "ha"})
	ctx := context.Background()

	before, _, _ := svc.GetSessionTimeline(ctx, id, 0)

	for _, cmd := range []string{"/style Limerick", "/length Gigantic", "/temp 2", "/temp abc", "/topic"} {
		var out bytes.Buffer
		result, err := HandleCommand(ctx, svc, id, cmd, &out)
		if err == nil {
			t.Errorf("%s: expected an error", cmd)
		}
		if result != resultContinue {
			t.Errorf("%s: result = %v, want resultContinue", cmd, result)
		}
	}

	after, _, _ := svc.GetSessionTimeline(ctx, id, 0)
	if after.Prefs != before.Prefs {
		t.Errorf("failed commands changed preferences: %+v", after.Prefs)
	}
}

func TestHandleCommand_New(t *testing.T) {
	svc, id := newTestSession(t, &cannedClient{reply: "ha"})
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, chat.SendMessageInput{SessionID: id, Text: "hi"}); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	var out bytes.Buffer
	if _, err := HandleCommand(ctx, svc, id, "/new", &out); err != nil {
		t.Fatalf("/new failed: %v", err)
	}
	if !strings.Contains(out.String(), "New chat started!") {
		t.Errorf("/new output = %q, want the new-chat greeting", out.String())
	}

	_, msgs, err := svc.GetSessionTimeline(ctx, id, 0)
	if err != nil {
		t.Fatalf("GetSessionTimeline failed: %v", err)
	}
	if len(msgs) != 1 {
		t.Errorf("conversation after /new has %d messages, want 1", len(msgs))
	}
}

func TestHandleCommand_PrefsAndHelp(t *testing.T) {
	svc, id := newTestSession(t, &cannedClient{reply: "ha"})
	ctx := context.Background()

	var out bytes.Buffer
	if _, err := HandleCommand(ctx, svc, id, "/prefs", &out); err != nil {
		t.Fatalf("/prefs failed: %v", err)
	}
	if !strings.Contains(out.String(), "style=One-liner") || !strings.Contains(out.String(), "topic=Python") {
		t.Errorf("/prefs output = %q", out.String())
	}

	out.Reset()
	if _, err := HandleCommand(ctx, svc, id, "/help", &out); err != nil {
		t.Fatalf("/help failed: %v", err)
	}
	if !strings.Contains(out.String(), "/joke") {
		t.Errorf("/help output missing /joke: %q", out.String())
	}
}

func TestHandleCommand_Unknown(t *testing.T) {
	svc, id := newTestSession(t, &cannedClient{reply: "ha"})

	var out bytes.Buffer
	_, err := HandleCommand(context.Background(), svc, id, "/frobnicate", &out)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("error = %v, want unknown command", err)
	}
}
