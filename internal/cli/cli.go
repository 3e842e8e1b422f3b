// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for knowdesk.
package cli

import (
	"fmt"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdLogin
	CmdLogout
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool

	// Command-specific
	Query string
	Email string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `knowdesk - terminal client for the company knowledge assistant

Knowdesk answers questions about internal documents, the analytics
database, GitHub repositories, and Jira, through the knowledge
assistant backend.

Usage:
  knowdesk                    Start the TUI (default)
  knowdesk ask "question"     Ask a single question and print the answer
  knowdesk login              Sign in and store the session token
  knowdesk logout             Sign out and discard the stored token
  knowdesk status, s          Show backend and session status
  knowdesk version            Show version information
  knowdesk help               Show this help

Flags:
  --email ADDRESS   Email for login (prompted when omitted)
  --json            Machine-readable output where supported
  -q, --quiet       Only print the answer for ask
  -v, --verbose     Print request diagnostics on stderr for ask

Configuration lives in ~/.knowdesk/config.toml. The backend URL can be
overridden with KNOWDESK_API_URL.`

// Parse parses os.Args-style arguments into a command and its flags.
func Parse(argv []string) (Command, Args) {
	args := Args{}

	var positional []string
	i := 0
	for i < len(argv) {
		arg := argv[i]
		switch {
		case arg == "--json":
			args.JSON = true
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case arg == "--email" && i+1 < len(argv):
			i++
			args.Email = argv[i]
		case strings.HasPrefix(arg, "--email="):
			args.Email = strings.TrimPrefix(arg, "--email=")
		default:
			positional = append(positional, arg)
		}
		i++
	}
	args.Raw = positional

	if len(positional) == 0 {
		return CmdTUI, args
	}

	switch positional[0] {
	case "ask":
		args.Query = strings.Join(positional[1:], " ")
		return CmdAsk, args
	case "login":
		return CmdLogin, args
	case "logout":
		return CmdLogout, args
	case "status", "s":
		return CmdStatus, args
	case "version", "--version":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	default:
		// Treat unrecognized positional input as a question.
		args.Query = strings.Join(positional, " ")
		return CmdAsk, args
	}
}

// HandleHelp prints usage.
func HandleHelp() {
	fmt.Println(usageText)
}

// HandleVersion prints version information.
func HandleVersion() {
	fmt.Printf("knowdesk %s (%s, built %s)\n", Version, GitCommit, BuildDate)
}
