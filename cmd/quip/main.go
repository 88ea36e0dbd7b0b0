// Command quip is an interactive terminal client for the programming joke
// bot. It drives the chat service in-process; the only network hop is the
// outbound completion call.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/PabloGalante/quip-agent/internal/adapters/llm"
	"github.com/PabloGalante/quip-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/quip-agent/internal/app/chat"
	"github.com/PabloGalante/quip-agent/internal/domain"
)

const (
	ExitSuccess     = 0
	ExitConfigError = 1
	ExitLLMError    = 2
)

const busyMessage = "Crafting a brilliant punchline..."

var version = "dev"

type CLI struct {
	Model      string
	ConfigPath string
	Quiet      bool
	Message    string
}

// Deps holds injectable dependencies for the app.
type Deps struct {
	Service *chat.Service
	Prefs   domain.Preferences
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	IsTTY   func() bool

	// sessionID is recorded once the session starts. Tests read it to
	// inspect the conversation after a run.
	sessionID domain.SessionID
}

func parseArgs() *CLI {
	cli := &CLI{}

	flag.StringVar(&cli.Model, "model", "", "Override model from config")
	flag.StringVar(&cli.Model, "m", "", "Override model from config (shorthand)")
	flag.StringVar(&cli.ConfigPath, "config", "", "Use alternate config file")
	flag.StringVar(&cli.ConfigPath, "c", "", "Use alternate config file (shorthand)")
	flag.BoolVar(&cli.Quiet, "quiet", false, "Print replies only, no banner or spinner")
	flag.BoolVar(&cli.Quiet, "q", false, "Print replies only, no banner or spinner (shorthand)")

	showVersion := flag.Bool("version", false, "Show version")
	showVersionShort := flag.Bool("v", false, "Show version (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: quip [flags] [message]\n\n")
		fmt.Fprintf(os.Stderr, "Chat with a witty, clean programming joke bot.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion || *showVersionShort {
		fmt.Printf("quip %s\n", version)
		os.Exit(ExitSuccess)
	}

	if args := flag.Args(); len(args) > 0 {
		cli.Message = strings.Join(args, " ")
	}

	return cli
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// completeTurn runs one blocking turn against the service, animating the
// busy indicator while the call is in flight. Failures are reported inline;
// the conversation keeps the user message and nothing else.
func completeTurn(ctx context.Context, deps *Deps, quiet bool, turn func(context.Context) (*chat.SendMessageOutput, error)) bool {
	var spinner *Spinner
	if deps.IsTTY() && !quiet {
		spinner = NewSpinner(busyMessage, deps.Stdout)
		spinner.Start()
	}

	out, err := turn(ctx)

	if spinner != nil {
		spinner.Stop()
	}

	if err != nil {
		fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		return false
	}

	fmt.Fprintln(deps.Stdout, out.AssistantMessage.Content)
	return true
}

func runWithDeps(ctx context.Context, cli *CLI, deps *Deps) error {
	svc := deps.Service

	started, err := svc.StartSession(ctx, chat.StartSessionInput{Prefs: &deps.Prefs})
	if err != nil {
		return fmt.Errorf("starting session: %v", err)
	}
	sessionID := started.Session.ID
	deps.sessionID = sessionID

	tty := deps.IsTTY()

	// Pipe mode: one turn, print the reply, exit. A positional message is
	// sent verbatim; without one the structured trigger fires.
	if !tty {
		turn := func(ctx context.Context) (*chat.SendMessageOutput, error) {
			if cli.Message != "" {
				return svc.SendMessage(ctx, chat.SendMessageInput{SessionID: sessionID, Text: cli.Message})
			}
			return svc.TellJoke(ctx, chat.TellJokeInput{SessionID: sessionID})
		}
		if !completeTurn(ctx, deps, cli.Quiet, turn) {
			return fmt.Errorf("completion failed")
		}
		return nil
	}

	if !cli.Quiet {
		fmt.Fprintln(deps.Stdout, started.Greeting.Content)
		fmt.Fprintln(deps.Stdout, "Type /help for commands.")
	}

	// A positional message becomes the opening turn.
	if cli.Message != "" {
		completeTurn(ctx, deps, cli.Quiet, func(ctx context.Context) (*chat.SendMessageOutput, error) {
			return svc.SendMessage(ctx, chat.SendMessageInput{SessionID: sessionID, Text: cli.Message})
		})
	}

	reader := bufio.NewReader(deps.Stdin)
	for {
		fmt.Fprint(deps.Stdout, "> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading input: %v", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if IsCommand(line) {
			result, err := HandleCommand(ctx, svc, sessionID, line, deps.Stdout)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
				continue
			}
			switch result {
			case resultExit:
				return nil
			case resultJoke:
				completeTurn(ctx, deps, cli.Quiet, func(ctx context.Context) (*chat.SendMessageOutput, error) {
					return svc.TellJoke(ctx, chat.TellJokeInput{SessionID: sessionID})
				})
			}
			continue
		}

		completeTurn(ctx, deps, cli.Quiet, func(ctx context.Context) (*chat.SendMessageOutput, error) {
			return svc.SendMessage(ctx, chat.SendMessageInput{SessionID: sessionID, Text: line})
		})
	}
}

func run(ctx context.Context, cli *CLI) error {
	configPath := cli.ConfigPath
	explicit := configPath != ""
	if configPath == "" {
		configPath = defaultConfigPath()
	}
	configPath = ExpandPath(configPath)

	cfg := &Config{}
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		switch {
		case err == nil:
			cfg = loaded
		case os.IsNotExist(err) && !explicit:
			// No config file is the normal case; everything has defaults.
		case os.IsNotExist(err):
			return fmt.Errorf("config file not found: %s", configPath)
		default:
			return fmt.Errorf("invalid config: %v", err)
		}
	}

	prefs, err := PreferencesFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %v", err)
	}

	apiKey := ResolveAPIKey(cfg)
	if apiKey == "" {
		return fmt.Errorf("no API key: set OPENAI_API_KEY or api_key in %s", configPath)
	}

	model := cfg.Model
	if cli.Model != "" {
		model = cli.Model
	}

	opts := []chat.Option{}
	if model != "" {
		opts = append(opts, chat.WithModel(model))
	}

	svc := chat.NewService(
		llm.NewOpenAIClient(apiKey, cfg.BaseURL),
		memory.NewSessionStore(),
		memory.NewMessageStore(),
		opts...,
	)

	deps := &Deps{
		Service: svc,
		Prefs:   prefs,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		IsTTY:   isTTY,
	}

	return runWithDeps(ctx, cli, deps)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		os.Exit(130) // Standard exit code for SIGINT
	}()

	cli := parseArgs()

	if err := run(ctx, cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		switch {
		case strings.Contains(err.Error(), "config") || strings.Contains(err.Error(), "API key"):
			os.Exit(ExitConfigError)
		default:
			os.Exit(ExitLLMError)
		}
	}
}
