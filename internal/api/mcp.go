package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/wayfind/internal/careers"
	"github.com/kalambet/wayfind/internal/guidance"
	"github.com/kalambet/wayfind/internal/profile"
)

// NewMCPServer creates an MCP server exposing the guidance tools and
// resources over stdio.
func NewMCPServer(sys *guidance.System) *server.MCPServer {
	s := server.NewMCPServer(
		"wayfind",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("wayfind — career guidance: explore careers, generate analysis reports, and ask follow-up questions."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("list_careers",
			mcp.WithDescription("List the career catalog, optionally filtered to one category."),
			mcp.WithString("category", mcp.Description("Category name (e.g. Technology); omit for all")),
		),
		mcpListCareers(),
	)

	s.AddTool(
		mcp.NewTool("analyze_career",
			mcp.WithDescription("Generate (or recall) the full analysis report for a career: overview, market, learning roadmap, and industry insights."),
			mcp.WithString("career", mcp.Description("Career name"), mcp.Required()),
		),
		mcpAnalyzeCareer(sys),
	)

	s.AddTool(
		mcp.NewTool("ask_advisor",
			mcp.WithDescription("Ask the career advisor a free-form question, grounded in the selected career's report."),
			mcp.WithString("question", mcp.Description("The question to ask"), mcp.Required()),
			mcp.WithString("career", mcp.Description("Career to ground the answer in; omit for the most recently analyzed")),
		),
		mcpAskAdvisor(sys),
	)

	s.AddTool(
		mcp.NewTool("save_profile",
			mcp.WithDescription("Replace the user profile (education, experience, skills)."),
			mcp.WithString("education", mcp.Description("Education level (e.g. Bachelor's)")),
			mcp.WithString("experience", mcp.Description("Experience range (e.g. 3-5 years)")),
			mcp.WithString("skills", mcp.Description("JSON object of skill name to level 1-5")),
		),
		mcpSaveProfile(sys),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"user://profile",
			"User Profile",
			mcp.WithResourceDescription("Current user profile as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(sys),
	)

	s.AddResource(
		mcp.NewResource(
			"careers://catalog",
			"Career Catalog",
			mcp.WithResourceDescription("Career options grouped by category"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceCatalog(),
	)

	return s
}

func mcpListCareers() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		category := req.GetString("category", "")

		var payload any
		if category != "" {
			options := careers.Options(category)
			if options == nil {
				return mcpError(fmt.Sprintf("unknown category %q; known: %v", category, careers.Categories())), nil
			}
			payload = options
		} else {
			payload = careers.All()
		}

		b, err := json.Marshal(payload)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal catalog: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpAnalyzeCareer(sys *guidance.System) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		career, err := req.RequireString("career")
		if err != nil {
			return mcpError("career is required"), nil
		}

		rep := sys.Analyze(ctx, career)
		b, err := json.Marshal(rep)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal report: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpAskAdvisor(sys *guidance.System) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}
		career := req.GetString("career", "")

		turn, err := sys.Chat(ctx, question, career)
		if err != nil {
			return mcpError(fmt.Sprintf("advisor failed: %v", err)), nil
		}
		return mcpText(turn.Response), nil
	}
}

func mcpSaveProfile(sys *guidance.System) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p := profile.Profile{
			Education:  req.GetString("education", ""),
			Experience: req.GetString("experience", ""),
		}
		if raw := req.GetString("skills", ""); raw != "" {
			if err := json.Unmarshal([]byte(raw), &p.Skills); err != nil {
				return mcpError(fmt.Sprintf("invalid skills JSON: %v", err)), nil
			}
		}

		if err := sys.Profiles.Replace(p); err != nil {
			return mcpError(fmt.Sprintf("failed to save profile: %v", err)), nil
		}
		return mcpText("Profile saved"), nil
	}
}

func mcpResourceProfile(sys *guidance.System) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		p, err := sys.Profiles.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}

		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profile: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceCatalog() server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(careers.All())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
