// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// TOOL BADGES
// =============================================================================

// toolDescriptor describes a backend tool for display. Label is the
// badge text shown next to an answer, Description the one-line
// explanation of what the tool did.
type toolDescriptor struct {
	Label       string
	Description string
}

// toolDescriptions maps the backend's tool identifiers to their
// explanation line. The set is closed on our side: identifiers the
// backend adds later fall through to a generic form rather than being
// hidden.
var toolDescriptions = map[string]string{
	"search_documents":    "searched internal documents",
	"query_database":      "queried the analytics database",
	"get_database_schema": "inspected the database schema",
	"search_github":       "searched GitHub repositories",
	"get_github_file":     "fetched a file from GitHub",
	"search_jira":         "searched Jira issues",
	"get_jira_ticket":     "looked up a Jira ticket",
	"list_jira_sprints":   "listed Jira sprints",
}

var titleCaser = cases.Title(language.English)

// humanizeTool derives the badge label from a tool identifier: the
// separator becomes a space and each word is title-cased, so
// "search_documents" renders as "Search Documents". Known and unknown
// identifiers are labeled the same way.
func humanizeTool(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "_", " "))
}

// DescribeTool returns display metadata for a tool identifier.
func DescribeTool(id string) toolDescriptor {
	d := toolDescriptor{Label: humanizeTool(id)}
	if desc, ok := toolDescriptions[id]; ok {
		d.Description = desc
		return d
	}
	d.Description = "used " + strings.ReplaceAll(id, "_", " ")
	return d
}
