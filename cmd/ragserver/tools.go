package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/storechat/ragengine"
	"github.com/storechat/ragengine/orchestrator"
)

// serveStdio registers the assistant tools and blocks serving MCP on stdio.
func serveStdio(engine *ragengine.Engine) error {
	s := server.NewMCPServer(
		"storefront-rag",
		version,
		server.WithInstructions("Storefront assistant: answers shopper questions from the store knowledge base and manages its chunks"),
	)

	s.AddTool(
		mcp.NewTool("chat",
			mcp.WithDescription("Answer a shopper question using store knowledge, with conversation memory"),
			mcp.WithString("query", mcp.Required(), mcp.Description("The shopper's question")),
			mcp.WithString("session_id", mcp.Description("Conversation id; omit to start a new conversation")),
			mcp.WithString("response_mode", mcp.Description("standard, detailed or concise")),
			mcp.WithObject("user_context", mcp.Description("Page/session attributes such as page_type, intent, recently_viewed")),
		),
		handleChat(engine),
	)

	s.AddTool(
		mcp.NewTool("search-chunks",
			mcp.WithDescription("Semantic search across stored knowledge chunks"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Natural language search query")),
			mcp.WithNumber("top_k", mcp.Description("Maximum results to return")),
			mcp.WithNumber("threshold", mcp.Description("Minimum similarity score in [0,1]")),
		),
		handleSearchChunks(engine),
	)

	s.AddTool(
		mcp.NewTool("create-chunks-from-text",
			mcp.WithDescription("Split text into chunks and add them to the knowledge base"),
			mcp.WithString("text", mcp.Required(), mcp.Description("Raw text to index")),
			mcp.WithString("content_type", mcp.Description("policy, product, faq, post or page")),
			mcp.WithString("source_title", mcp.Description("Human readable source name")),
			mcp.WithString("source_url", mcp.Description("Canonical source URL")),
		),
		handleCreateChunks(engine),
	)

	s.AddTool(
		mcp.NewTool("list-chunks",
			mcp.WithDescription("List stored knowledge chunks"),
			mcp.WithNumber("limit", mcp.Description("Maximum chunks to return")),
		),
		handleListChunks(engine),
	)

	s.AddTool(
		mcp.NewTool("delete-chunk",
			mcp.WithDescription("Delete one knowledge chunk by id"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Chunk id")),
		),
		handleDeleteChunk(engine),
	)

	return server.ServeStdio(s)
}

func handleChat(engine *ragengine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		userContext := stringMap(req.GetArguments()["user_context"])

		sessionID, result, err := engine.Chat(ctx, req.GetString("session_id", ""), query, userContext, orchestrator.Options{
			ResponseMode: req.GetString("response_mode", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		payload := map[string]any{"session_id": sessionID, "result": result}
		return jsonResult(payload)
	}
}

func handleSearchChunks(engine *ragengine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		matches, err := engine.SearchChunks(ctx, query, req.GetInt("top_k", 0), req.GetFloat("threshold", 0))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(matches)
	}
}

func handleCreateChunks(engine *ragengine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ids, err := engine.CreateChunksFromText(ctx, text,
			req.GetString("content_type", ""),
			req.GetString("source_title", ""),
			req.GetString("source_url", ""),
			nil,
		)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"created": len(ids), "ids": ids})
	}
}

func handleListChunks(engine *ragengine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		docs, err := engine.ListChunks(ctx, req.GetInt("limit", 0))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(docs)
	}
}

func handleDeleteChunk(engine *ragengine.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := engine.DeleteChunk(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("deleted chunk %s", id)), nil
	}
}

func stringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
