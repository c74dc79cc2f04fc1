package insight

import (
	"fmt"
	"strings"

	"github.com/reviewpulse/reviewpulse/internal/store"
)

// WindowSize bounds how many of the most recent records feed a summary or
// actions prompt.
const WindowSize = 50

const replyPromptTemplate = `You are a polite customer support assistant.

A customer named %s left this feedback:
Rating: %d / 5
Review: """%s"""

Write a short, friendly reply (2-3 sentences) that:
- Thanks them for the feedback
- Acknowledges their sentiment based on rating
- %s

Don't add any JSON, just natural language.
`

const (
	apologyClause      = "Apologize briefly and say you'll work to improve"
	appreciationClause = "Appreciate their support"
)

const summaryPromptTemplate = `You are helping a business owner understand customer feedback.

Here are recent customer reviews (rating and text):

%s

Your tasks:
1. Provide a concise summary (4-6 bullet points) of what customers like and dislike.
2. Mention any repeated themes (e.g., staff, waiting time, price, quality).
3. Comment on overall satisfaction (low/medium/high).

Return the answer in markdown with sections:
## Summary
- ...

## Overall Satisfaction
- ...
`

const actionsPromptTemplate = `You are a customer experience consultant.

Based on these customer reviews:

%s

Suggest 5-8 practical, specific actions the business can take to improve.
- Mix quick wins and long-term changes
- Focus on things that actually appear in the reviews
- Prioritize impact

Return as a markdown bullet list, no JSON.
`

// BuildReplyPrompt renders the per-user reply prompt. An empty display name
// falls back to the literal "there". Ratings of 3 and below select the
// apology clause; 4 and above select the appreciation clause.
func BuildReplyPrompt(name string, rating int, reviewText string) string {
	if name == "" {
		name = "there"
	}
	clause := appreciationClause
	if rating <= 3 {
		clause = apologyClause
	}
	return fmt.Sprintf(replyPromptTemplate, name, rating, reviewText, clause)
}

// BuildSummaryPrompt renders the admin summary prompt over the trailing
// record window.
func BuildSummaryPrompt(records []store.Record) string {
	return fmt.Sprintf(summaryPromptTemplate, reviewBlock(records))
}

// BuildActionsPrompt renders the admin action-recommendation prompt over the
// trailing record window.
func BuildActionsPrompt(records []store.Record) string {
	return fmt.Sprintf(actionsPromptTemplate, reviewBlock(records))
}

// Window returns the at most WindowSize most recently appended records, in
// submission order.
func Window(records []store.Record) []store.Record {
	if len(records) > WindowSize {
		return records[len(records)-WindowSize:]
	}
	return records
}

func reviewBlock(records []store.Record) string {
	lines := make([]string, 0, WindowSize)
	for _, rec := range Window(records) {
		lines = append(lines, fmt.Sprintf("Rating %s: %s", rec.Rating.String, rec.ReviewText.String))
	}
	return strings.Join(lines, "\n\n")
}
