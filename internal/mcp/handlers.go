package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/cerebro/internal/assistant"
	"github.com/ziadkadry99/cerebro/internal/catalog"
)

func (s *Server) handleClassifyIntent(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}
	if s.pipeline == nil {
		return mcp.NewToolResultError("assistant not configured"), nil
	}

	return jsonResult(s.pipeline.Classify(text))
}

func (s *Server) handleAskAssistant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}
	if s.pipeline == nil {
		return mcp.NewToolResultError("assistant not configured"), nil
	}

	resp, err := s.pipeline.Run(ctx, assistant.Request{
		Messages:    []assistant.Turn{{Role: "user", Content: question}},
		UserProfile: request.GetString("user_profile", ""),
		ModelTier:   request.GetString("model_tier", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("assistant failed (%s): %v", assistant.ErrorKind(err), err)), nil
	}

	var sb strings.Builder
	sb.WriteString(resp.Content)
	sb.WriteString(fmt.Sprintf("\n\n---\nintent: %s (confidence %.2f), model: %s", resp.Intent, resp.Confidence, resp.Model))
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleSearchCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := request.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: kind"), nil
	}
	if s.catalog == nil {
		return mcp.NewToolResultError("no catalog available"), nil
	}

	terms := strings.Fields(request.GetString("query", ""))
	limit := request.GetInt("limit", catalog.MaxLimit)

	var result any
	switch catalog.Kind(kind) {
	case catalog.KindCourses:
		result, err = s.catalog.SearchCourses(ctx, terms, limit)
	case catalog.KindEquipment:
		result, err = s.catalog.SearchEquipment(ctx, terms, limit)
	case catalog.KindVideos:
		result, err = s.catalog.SearchVideos(ctx, terms, limit)
	case catalog.KindArticles:
		result, err = s.catalog.SearchArticles(ctx, terms, limit)
	case catalog.KindExamples:
		result, err = s.catalog.SearchExamples(ctx, "", terms, limit)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown catalog kind %q", kind)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return jsonResult(result)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
