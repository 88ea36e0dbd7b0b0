// main_test.go
package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PabloGalante/quip-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/quip-agent/internal/app/chat"
	"github.com/PabloGalante/quip-agent/internal/domain"
)

func newTestDeps(client domain.CompletionClient, stdin string, tty bool) (*Deps, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer

	svc := chat.NewService(client, memory.NewSessionStore(), memory.NewMessageStore())

	return &Deps{
		Service: svc,
		Prefs:   domain.DefaultPreferences(),
		Stdin:   strings.NewReader(stdin),
		Stdout:  &stdout,
		Stderr:  &stderr,
		IsTTY:   func() bool { return tty },
	}, &stdout, &stderr
}

func TestRun_PipeModeStructuredJoke(t *testing.T) {
	deps, stdout, _ := newTestDeps(&cannedClient{reply: "Why did the loop break? It needed a break."}, "", false)

	if err := runWithDeps(context.Background(), &CLI{}, deps); err != nil {
		t.Fatalf("runWithDeps failed: %v", err)
	}

	if !strings.Contains(stdout.String(), "Why did the loop break?") {
		t.Errorf("stdout = %q, want the joke", stdout.String())
	}
}

func TestRun_PipeModeWithMessage(t *testing.T) {
	client := &cannedClient{reply: "ok"}
	deps, _, _ := newTestDeps(client, "", false)

	cli := &CLI{Message: "a joke about channels"}
	if err := runWithDeps(context.Background(), cli, deps); err != nil {
		t.Fatalf("runWithDeps failed: %v", err)
	}

	_, msgs, err := deps.Service.GetSessionTimeline(context.Background(), deps.sessionID, 0)
	if err != nil {
		t.Fatalf("GetSessionTimeline failed: %v", err)
	}
	// greeting, the literal user message, the reply.
	if len(msgs) != 3 {
		t.Fatalf("conversation has %d messages, want 3", len(msgs))
	}
	if msgs[1].Content != "a joke about channels" {
		t.Errorf("user message = %q, want the literal text", msgs[1].Content)
	}
}

func TestRun_PipeModeFailure(t *testing.T) {
	deps, _, stderr := newTestDeps(&cannedClient{err: errors.New("socket closed")}, "", false)

	err := runWithDeps(context.Background(), &CLI{}, deps)
	if err == nil {
		t.Fatal("expected an error in pipe mode on failure")
	}
	if !strings.Contains(stderr.String(), "Error:") {
		t.Errorf("stderr = %q, want an inline error", stderr.String())
	}
}

func TestRun_InteractiveConversation(t *testing.T) {
	input := "tell me something funny\n/joke\n/bye\n"
	deps, stdout, _ := newTestDeps(&cannedClient{reply: "404: joke not found."}, input, true)

	if err := runWithDeps(context.Background(), &CLI{}, deps); err != nil {
		t.Fatalf("runWithDeps failed: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "programming joke bot") {
		t.Errorf("stdout missing greeting: %q", out)
	}
	if strings.Count(out, "404: joke not found.") != 2 {
		t.Errorf("stdout should carry two replies: %q", out)
	}
	if !strings.Contains(out, "Goodbye") {
		t.Errorf("stdout missing goodbye: %q", out)
	}
}

func TestRun_InteractiveFailureKeepsGoing(t *testing.T) {
	client := &cannedClient{err: errors.New("quota exceeded")}
	input := "first try\n/bye\n"
	deps, _, stderr := newTestDeps(client, input, true)

	if err := runWithDeps(context.Background(), &CLI{}, deps); err != nil {
		t.Fatalf("runWithDeps failed: %v", err)
	}
	if !strings.Contains(stderr.String(), "quota exceeded") {
		t.Errorf("stderr = %q, want the provider error", stderr.String())
	}

	// The failed user message stays; no assistant reply was added.
	_, msgs, err := deps.Service.GetSessionTimeline(context.Background(), deps.sessionID, 0)
	if err != nil {
		t.Fatalf("GetSessionTimeline failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("conversation has %d messages, want greeting + user message", len(msgs))
	}
	if msgs[1].Role != domain.RoleUser {
		t.Errorf("last message role = %q, want user", msgs[1].Role)
	}
}

func TestRun_EOFExitsCleanly(t *testing.T) {
	deps, _, _ := newTestDeps(&cannedClient{reply: "ok"}, "", true)

	if err := runWithDeps(context.Background(), &CLI{}, deps); err != nil {
		t.Fatalf("EOF should exit cleanly, got %v", err)
	}
}
