package mcp

import "github.com/mark3labs/mcp-go/mcp"

// classifyIntentTool defines the classify_intent MCP tool.
var classifyIntentTool = mcp.NewTool("classify_intent",
	mcp.WithDescription("Classify an aesthetics-professional request into the assistant's categories. Returns category, confidence and keywords."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The request text, usually in Portuguese"),
	),
)

// askAssistantTool defines the ask_assistant MCP tool.
var askAssistantTool = mcp.NewTool("ask_assistant",
	mcp.WithDescription("Ask the Mega Cérebro assistant a question. It picks the right knowledge base (courses, equipment, articles, videos, approved scripts) and answers in Portuguese."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question or content request"),
	),
	mcp.WithString("user_profile",
		mcp.Description("Optional profile of the professional asking (specialty, audience)"),
	),
	mcp.WithString("model_tier",
		mcp.Description("Model tier to use (default standard)"),
		mcp.Enum("standard", "gpt5"),
	),
)

// searchCatalogTool defines the search_catalog MCP tool.
var searchCatalogTool = mcp.NewTool("search_catalog",
	mcp.WithDescription("Search one reference collection by keyword."),
	mcp.WithString("kind",
		mcp.Required(),
		mcp.Description("Collection to search"),
		mcp.Enum("courses", "equipment", "videos", "articles", "approved_examples"),
	),
	mcp.WithString("query",
		mcp.Description("Space-separated keywords; empty returns the newest entries"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10, max 10)"),
	),
)
