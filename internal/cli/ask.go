// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for the knowdesk CLI.
//
// Handles the "knowdesk ask" command which sends one question to the
// backend and prints the rendered answer to stdout.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/morganforge/knowdesk-tui/internal/api"
	"github.com/morganforge/knowdesk-tui/internal/config"
	"github.com/morganforge/knowdesk-tui/internal/credstore"
	"github.com/morganforge/knowdesk-tui/internal/util"
)

// HandleAsk implements `knowdesk ask "question"`.
func HandleAsk(args Args) error {
	if util.IsBlank(args.Query) {
		return fmt.Errorf("usage: knowdesk ask \"question\"")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store := credstore.New()
	client := newClient(cfg, store)

	// Sign in on the spot when no session is stored.
	if _, ok := store.Get(); !ok {
		if _, err := interactiveLogin(client, store, args.Email); err != nil {
			return err
		}
	}

	if args.Verbose {
		fmt.Fprintf(os.Stderr, "backend: %s\n", cfg.API.BaseURL)
	}

	start := time.Now()
	resp, err := client.SendChatQuery(context.Background(), args.Query, "")
	if err != nil {
		return err
	}
	if args.Verbose {
		fmt.Fprintf(os.Stderr, "round trip: %s\n", time.Since(start).Round(time.Millisecond))
		if len(resp.ToolsUsed) > 0 {
			fmt.Fprintf(os.Stderr, "tools used: %s\n", strings.Join(resp.ToolsUsed, ", "))
		}
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(resp)
	}

	printAnswer(os.Stdout, resp, args.Quiet)
	return nil
}

// printAnswer renders the answer as markdown, then the citations, then
// the tools the backend consulted.
func printAnswer(w io.Writer, resp *api.ChatResponse, quiet bool) {
	out := resp.Answer
	if rendered, err := renderMarkdown(resp.Answer); err == nil {
		out = rendered
	}
	fmt.Fprint(w, strings.TrimRight(out, "\n"), "\n")

	if quiet {
		return
	}
	if len(resp.Sources) > 0 {
		fmt.Fprintln(w, "\nsources:")
		for _, src := range resp.Sources {
			fmt.Fprintf(w, "  - %s\n", src)
		}
	}
	if len(resp.ToolsUsed) > 0 {
		fmt.Fprintf(w, "\ntools: %s\n", strings.Join(resp.ToolsUsed, ", "))
	}
	if resp.ModelUsed != "" || resp.ProcessingTimeMs > 0 {
		fmt.Fprintf(w, "\n(%s", resp.ModelUsed)
		if resp.ProcessingTimeMs > 0 {
			fmt.Fprintf(w, " %.0fms", resp.ProcessingTimeMs)
		}
		fmt.Fprintln(w, ")")
	}
}

// renderMarkdown renders markdown for terminal output.
func renderMarkdown(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}
