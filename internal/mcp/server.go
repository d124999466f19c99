package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/creditrust/complaints-rag/internal/rag"
	"github.com/creditrust/complaints-rag/internal/storage"
)

// Asker answers a question over the complaint index. Implemented by
// rag.Pipeline.
type Asker interface {
	AnswerQuestion(ctx context.Context, question string, filters storage.Filters) (*rag.AnswerResult, error)
}

// Server wraps the MCP server with its pipeline dependency.
type Server struct {
	server   *mcp.Server
	pipeline Asker
}

// NewServer creates an MCP server with the ask_complaints tool registered.
func NewServer(pipeline Asker) *Server {
	impl := &mcp.Implementation{
		Name:    "complaints-rag-server",
		Version: "v1.0.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_complaints",
		Description: "Answer a natural-language question over consumer financial complaints. Retrieves relevant complaint excerpts and returns a grounded answer with its sources. Optional product/company filters narrow retrieval by exact match.",
	}, makeAskHandler(pipeline))

	return &Server{
		server:   server,
		pipeline: pipeline,
	}
}

// makeAskHandler creates the ask_complaints tool handler. The tool is a
// thin adapter: it maps the tool input onto the pipeline's filter struct
// and returns the AnswerResult fields unchanged.
func makeAskHandler(pipeline Asker) func(
	context.Context, *mcp.CallToolRequest, AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (
		*mcp.CallToolResult, AskOutput, error,
	) {
		result, err := pipeline.AnswerQuestion(ctx, input.Question, storage.Filters{
			Product: input.Product,
			Company: input.Company,
		})
		if err != nil {
			return nil, AskOutput{}, fmt.Errorf("answer question: %w", err)
		}

		return nil, AskOutput{
			Question: result.Question,
			Answer:   result.Answer,
			Sources:  result.Sources,
		}, nil
	}
}

// Run starts the server over stdio (blocks until the client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns a Streamable HTTP transport for this server, suitable
// for mounting on a mux path such as /mcp. The tool server holds no session
// state, so the transport is stateless.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{Stateless: true})
}
