package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/reviewpulse/reviewpulse/internal/feedback"
	"github.com/reviewpulse/reviewpulse/internal/history"
)

// New builds the MCP stdio server exposing the feedback operations as tools.
func New(svc *feedback.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"reviewpulse",
		"1.0.0",
		server.WithToolCapabilities(false),
	)
	h := &handler{svc: svc}

	submitTool := mcp.NewTool("submit_feedback",
		mcp.WithDescription("Submit a customer rating and review. Returns a courteous AI-generated reply."),
		mcp.WithString("review_text",
			mcp.Required(),
			mcp.Description("The customer's free-text review; must not be empty"),
		),
		mcp.WithNumber("rating",
			mcp.Required(),
			mcp.Description("Rating from 1 (worst) to 5 (best)"),
		),
		mcp.WithString("user_name",
			mcp.Description("Optional display name; anonymous when omitted"),
		),
	)
	s.AddTool(submitTool, h.submit)

	statsTool := mcp.NewTool("feedback_stats",
		mcp.WithDescription("Aggregate statistics over all stored feedback: total, average rating, ratings histogram."),
	)
	s.AddTool(statsTool, h.stats)

	summaryTool := mcp.NewTool("feedback_summary",
		mcp.WithDescription("AI-generated summary of recent customer feedback themes and overall satisfaction."),
	)
	s.AddTool(summaryTool, h.summary)

	actionsTool := mcp.NewTool("feedback_actions",
		mcp.WithDescription("AI-generated prioritized action recommendations based on recent customer feedback."),
	)
	s.AddTool(actionsTool, h.actions)

	return s
}

type handler struct {
	svc *feedback.Service
}

func (h *handler) submit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reviewText, err := request.RequireString("review_text")
	if err != nil {
		return mcp.NewToolResultError("review_text is required"), nil
	}
	rating, err := request.RequireInt("rating")
	if err != nil {
		return mcp.NewToolResultError("rating is required"), nil
	}
	userName := request.GetString("user_name", "")

	rec, err := h.svc.Submit(ctx, userName, rating, reviewText)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(rec.UserLLMResponse.String), nil
}

func (h *handler) stats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := h.svc.Stats()

	var b strings.Builder
	fmt.Fprintf(&b, "Total feedback: %d\n", st.Total)
	fmt.Fprintf(&b, "Average rating: %.2f / 5\n", st.AverageRating)
	if st.LastFeedbackAt != "" {
		fmt.Fprintf(&b, "Last feedback at: %s\n", st.LastFeedbackAt)
	}
	b.WriteString("Histogram:\n")
	for r := 1; r <= 5; r++ {
		fmt.Fprintf(&b, "  %d stars: %d\n", r, st.Histogram[r])
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (h *handler) summary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.insight(ctx, history.KindSummary)
}

func (h *handler) actions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.insight(ctx, history.KindActions)
}

func (h *handler) insight(ctx context.Context, kind string) (*mcp.CallToolResult, error) {
	var (
		text string
		err  error
	)
	if kind == history.KindSummary {
		text, err = h.svc.GenerateSummary(ctx)
	} else {
		text, err = h.svc.GenerateActions(ctx)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}
