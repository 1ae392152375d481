// Package resolver selects a reply for a user message from the document corpus.
package resolver

import (
	"strings"

	"supportchat-backend/internal/models"
)

// Fallback is returned when no document matches. Clients match on this exact
// string, so it must not change.
const Fallback = "Sorry, I don't have information about that."

// Resolve returns the content of the first document whose title matches the
// user message, or Fallback. Matching is case-insensitive and substring-based
// rather than tokenized, so a title that is a substring of an unrelated word
// still matches. The password/refund clauses let either keyword alone select
// the corresponding document even when the full title is absent from the
// message.
func Resolve(userMessage string, documents []models.Document) string {
	lowerMessage := strings.ToLower(userMessage)

	for _, doc := range documents {
		title := strings.ToLower(doc.Title)
		if title == "" {
			// An empty title is invalid corpus input, not a wildcard.
			continue
		}

		if strings.Contains(lowerMessage, title) ||
			(strings.Contains(lowerMessage, "password") && strings.Contains(title, "password")) ||
			(strings.Contains(lowerMessage, "refund") && strings.Contains(title, "refund")) {
			return doc.Content
		}
	}

	return Fallback
}
