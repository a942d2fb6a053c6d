// ABOUTME: Interactive terminal client for the LLM council backend.
// ABOUTME: Provides readline-style input and streams staged deliberations via SSE.

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/council-client/internal/client"
	"github.com/2389/council-client/internal/config"
	"github.com/2389/council-client/internal/council"
	"github.com/2389/council-client/internal/markdown"
	"github.com/2389/council-client/internal/personas"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	personaColor = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
	errorColor   = color.New(color.FgRed)
)

// getToken returns the bearer token from COUNCIL_TOKEN or ~/.config/council/token.
func getToken() string {
	if token := os.Getenv("COUNCIL_TOKEN"); token != "" {
		return token
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	data, err := os.ReadFile(filepath.Join(configDir, "council", "token"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Path to client config file")
	server := flag.String("server", "", "Backend base URL (overrides config)")
	personaList := flag.String("personas", "", "Comma-separated persona ids (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *server != "" {
		cfg.Server.BaseURL = *server
	}
	if cfg.Server.Token == "" {
		cfg.Server.Token = getToken()
	}
	if *personaList != "" {
		cfg.Council.DefaultPersonas = strings.Split(*personaList, ",")
	}

	logger := setupLogger(cfg.Logging)

	c, err := client.New(client.Config{
		BaseURL: cfg.Server.BaseURL,
		Token:   cfg.Server.Token,
		Timeout: cfg.Server.Timeout,
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	catalog, err := personas.Load(cfg.Council.PresetsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("council-tui connected to %s\n", cfg.Server.BaseURL)
	if cfg.Server.Token != "" {
		fmt.Println("Auth: bearer token configured (COUNCIL_TOKEN)")
	} else {
		fmt.Println("Auth: none (set COUNCIL_TOKEN for authentication)")
	}
	fmt.Println("Ask a question and press Enter. /help for commands. Ctrl+C to quit.")
	fmt.Println()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := &app{
		client:     c,
		catalog:    catalog,
		personaIDs: cfg.Council.DefaultPersonas,
		logger:     logger,
	}
	if err := app.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGoodbye!")
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// app holds interactive session state: the active conversation and the
// persona selection for the next question.
type app struct {
	client     *client.Client
	catalog    *personas.Catalog
	conv       *council.Conversation
	personaIDs []string
	logger     *slog.Logger
}

func (a *app) run(ctx context.Context) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		if a.conv != nil {
			fmt.Printf("[%s]> ", shortID(a.conv.ID))
		} else {
			fmt.Print("> ")
		}

		inputCh := make(chan string, 1)
		errCh := make(chan error, 1)

		go func() {
			if scanner.Scan() {
				inputCh <- scanner.Text()
			} else {
				if err := scanner.Err(); err != nil {
					errCh <- err
				} else {
					errCh <- io.EOF
				}
			}
		}()

		var input string
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		case input = <-inputCh:
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if input == "/quit" || input == "/exit" || input == "/q" {
			return nil
		}

		switch {
		case input == "/help":
			printHelp()

		case input == "/new":
			if err := a.newConversation(ctx); err != nil {
				errorColor.Printf("[error] %v\n", err)
			}

		case input == "/list":
			if err := a.listConversations(ctx); err != nil {
				errorColor.Printf("[error] %v\n", err)
			}

		case strings.HasPrefix(input, "/open"):
			id := strings.TrimSpace(strings.TrimPrefix(input, "/open"))
			if id == "" {
				fmt.Println("Usage: /open <conversation-id>")
			} else if err := a.openConversation(ctx, id); err != nil {
				errorColor.Printf("[error] %v\n", err)
			}

		case input == "/personas":
			a.listPersonas(ctx)

		case strings.HasPrefix(input, "/use"):
			args := strings.TrimSpace(strings.TrimPrefix(input, "/use"))
			if args == "" {
				a.personaIDs = nil
				fmt.Println("Cleared persona selection, backend default applies")
			} else {
				a.personaIDs = strings.Fields(args)
				fmt.Printf("Now using %s\n", strings.Join(a.personaIDs, ", "))
			}

		case strings.HasPrefix(input, "/reply"):
			args := strings.TrimSpace(strings.TrimPrefix(input, "/reply"))
			if err := a.reply(ctx, args); err != nil {
				errorColor.Printf("[error] %v\n", err)
			}

		default:
			if err := a.ask(ctx, input); err != nil {
				errorColor.Printf("[error] %v\n", err)
			}
		}
		fmt.Println()
	}
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /new               Start a new conversation")
	fmt.Println("  /list              List conversations")
	fmt.Println("  /open <id>         Open an existing conversation")
	fmt.Println("  /personas          List available personas")
	fmt.Println("  /use <ids...>      Select personas for the next question")
	fmt.Println("  /use               Clear persona selection")
	fmt.Println("  /reply <n> <text>  Reply to stage-1 response number n")
	fmt.Println("  /help              Show this help")
	fmt.Println("  /quit              Exit")
}

func (a *app) newConversation(ctx context.Context) error {
	conv, err := a.client.CreateConversation(ctx)
	if err != nil {
		return err
	}
	a.conv = conv
	fmt.Printf("Started conversation %s\n", conv.ID)
	return nil
}

func (a *app) listConversations(ctx context.Context) error {
	list, err := a.client.ListConversations(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No conversations yet")
		return nil
	}
	for _, meta := range list {
		title := meta.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("  %s  %s (%d messages)\n", shortID(meta.ID), title, meta.MessageCount)
	}
	return nil
}

func (a *app) openConversation(ctx context.Context, id string) error {
	conv, err := a.client.GetConversation(ctx, id)
	if err != nil {
		return err
	}
	a.conv = conv
	fmt.Printf("Opened %q (%d messages)\n", conv.Title, len(conv.Messages))
	return nil
}

// listPersonas shows the backend catalog, falling back to local presets when
// the backend is unreachable.
func (a *app) listPersonas(ctx context.Context) {
	remote, err := a.client.ListPersonas(ctx)
	if err == nil {
		for id, p := range remote {
			fmt.Printf("  %-15s %s %s — %s (%s)\n", id, p.Icon, p.Name, p.Role, p.Model)
		}
		return
	}
	a.logger.Debug("falling back to local persona presets", "error", err)
	for _, p := range a.catalog.Presets {
		fmt.Printf("  %-15s %s %s — %s (%s)\n", p.ID, p.Icon, p.Name, p.Role, p.Model)
	}
}

// ask sends a question to the council and renders stages as they stream in.
func (a *app) ask(ctx context.Context, content string) error {
	if a.conv == nil {
		if err := a.newConversation(ctx); err != nil {
			return err
		}
	}

	stream, err := a.client.OpenStream(ctx, a.conv, content, a.personaIDs)
	if err != nil {
		return err
	}

	dimColor.Println("[deliberating...]")

	for ev := range stream.Events() {
		switch ev.Type {
		case council.EventStage1:
			headerColor.Println("Stage 1 — Council Responses")
			printResponses(ev.Responses)

		case council.EventStage2:
			headerColor.Println("Stage 2 — Cross-Examination")
			printResponses(ev.Responses)

		case council.EventStage3:
			headerColor.Println("Stage 3 — Chairman's Synthesis")
			if ev.Response != nil {
				printResponse(*ev.Response)
			}

		case council.EventTitle:
			dimColor.Printf("[title] %s\n", ev.Title)

		case council.EventError:
			errorColor.Printf("[error] %s\n", ev.Message)
		}
	}

	switch err := stream.Wait(); {
	case err == nil:
		dimColor.Println("[deliberation complete]")
	case err == client.ErrCanceled:
		dimColor.Println("[canceled]")
	default:
		return err
	}
	return nil
}

// reply parses "<n> <text>" and replies to stage-1 response number n of the
// last assistant message. The persona identity is snapshotted from that
// response; on success the conversation is re-fetched so the stored exchange
// becomes visible.
func (a *app) reply(ctx context.Context, args string) error {
	if a.conv == nil {
		return fmt.Errorf("no open conversation")
	}

	numStr, text, ok := strings.Cut(args, " ")
	if !ok || strings.TrimSpace(text) == "" {
		return fmt.Errorf("usage: /reply <n> <text>")
	}
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return fmt.Errorf("usage: /reply <n> <text>")
	}

	idx := a.conv.LastAssistant()
	if idx < 0 {
		return fmt.Errorf("no council response to reply to")
	}
	responses := a.conv.Messages[idx].Stage1
	if num < 1 || num > len(responses) {
		return fmt.Errorf("response number out of range (1-%d)", len(responses))
	}
	target := responses[num-1]

	ack, err := a.client.Reply(ctx, a.conv.ID, strings.TrimSpace(text), target.Identity())
	if err != nil {
		return err
	}

	personaColor.Printf("%s %s\n", ack.PersonaIcon, ack.DisplayName())
	fmt.Println(markdown.Plain(ack.Response))

	// Pick up the stored exchange; the reply call itself does not mutate
	// local state.
	if conv, err := a.client.GetConversation(ctx, a.conv.ID); err == nil {
		a.conv = conv
	}
	return nil
}

func printResponses(responses []council.PersonaResponse) {
	for i, r := range responses {
		fmt.Printf("%d. ", i+1)
		printResponse(r)
	}
}

func printResponse(r council.PersonaResponse) {
	if r.PersonaIcon != "" {
		personaColor.Printf("%s %s", r.PersonaIcon, r.DisplayName())
	} else {
		personaColor.Print(r.DisplayName())
	}
	if r.PersonaRole != "" {
		dimColor.Printf(" — %s", r.PersonaRole)
	}
	dimColor.Printf(" (%s)\n", r.Model)
	fmt.Println(markdown.Plain(r.Response))
	fmt.Println()
}

// shortID abbreviates a UUID for the prompt.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
