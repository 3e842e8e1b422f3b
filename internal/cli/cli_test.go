// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/morganforge/knowdesk-tui/internal/api"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantCmd Command
	}{
		{"no args", nil, CmdTUI},
		{"ask", []string{"ask", "what", "is", "up"}, CmdAsk},
		{"login", []string{"login"}, CmdLogin},
		{"logout", []string{"logout"}, CmdLogout},
		{"status", []string{"status"}, CmdStatus},
		{"status alias", []string{"s"}, CmdStatus},
		{"version", []string{"version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"--help"}, CmdHelp},
		{"bare question", []string{"where", "are", "the", "docs"}, CmdAsk},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := Parse(tt.argv)
			if cmd != tt.wantCmd {
				t.Errorf("Parse(%v) = %v, want %v", tt.argv, cmd, tt.wantCmd)
			}
		})
	}
}

func TestParseAskJoinsQuery(t *testing.T) {
	_, args := Parse([]string{"ask", "what", "is", "the", "leave", "policy"})
	if args.Query != "what is the leave policy" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseBareQuestionJoinsQuery(t *testing.T) {
	_, args := Parse([]string{"summarize", "sprint", "42"})
	if args.Query != "summarize sprint 42" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseFlags(t *testing.T) {
	cmd, args := Parse([]string{"--json", "ask", "-q", "-v", "hi", "--email", "dev@example.com"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v", cmd)
	}
	if !args.JSON || !args.Quiet || !args.Verbose {
		t.Errorf("flags = %+v", args)
	}
	if args.Email != "dev@example.com" {
		t.Errorf("Email = %q", args.Email)
	}
	if args.Query != "hi" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseEmailEquals(t *testing.T) {
	_, args := Parse([]string{"login", "--email=dev@example.com"})
	if args.Email != "dev@example.com" {
		t.Errorf("Email = %q", args.Email)
	}
}

func TestPrintAnswerListsSourcesBeforeTools(t *testing.T) {
	var buf bytes.Buffer
	printAnswer(&buf, &api.ChatResponse{
		Answer:    "done",
		Sources:   []string{"policy.pdf"},
		ToolsUsed: []string{"search_documents"},
	}, false)

	out := buf.String()
	srcIdx := strings.Index(out, "sources:")
	toolIdx := strings.Index(out, "tools:")
	if srcIdx < 0 || toolIdx < 0 {
		t.Fatalf("output missing sections:\n%s", out)
	}
	if srcIdx > toolIdx {
		t.Errorf("tools printed before sources:\n%s", out)
	}
}

func TestPrintAnswerQuietSkipsMetadata(t *testing.T) {
	var buf bytes.Buffer
	printAnswer(&buf, &api.ChatResponse{
		Answer:    "done",
		Sources:   []string{"policy.pdf"},
		ToolsUsed: []string{"search_documents"},
		ModelUsed: "gpt-4o-mini",
	}, true)

	out := buf.String()
	if strings.Contains(out, "sources:") || strings.Contains(out, "tools:") {
		t.Errorf("quiet output carries metadata:\n%s", out)
	}
}
