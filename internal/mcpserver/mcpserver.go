package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vitormoschetta/go-echo-chat/internal/model"
	"github.com/vitormoschetta/go-echo-chat/internal/service"
)

// EchoInput é a entrada da ferramenta echo
type EchoInput struct {
	Message string `json:"message" jsonschema:"the message to echo back"`
}

// New cria um servidor MCP com a ferramenta echo
func New(echo service.Echoer) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{Name: "echo-chat", Version: "1.0.0"}, nil)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "echo",
		Description: "Returns the message prefixed with \"Echo: \" and a UTC timestamp.",
	}, EchoTool(echo))
	return s
}

// Handler expõe o servidor via streamable HTTP
func Handler(s *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s }, nil)
}

// EchoTool adapta o serviço de eco para o formato de ferramenta MCP
func EchoTool(echo service.Echoer) mcp.ToolHandlerFor[EchoInput, model.ChatResponse] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in EchoInput) (*mcp.CallToolResult, model.ChatResponse, error) {
		raw, err := json.Marshal(in.Message)
		if err != nil {
			return nil, model.ChatResponse{}, err
		}

		res := echo.Handle(model.ChatRequest{Message: raw})
		switch res.Kind {
		case service.Success:
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: res.Response.Response}},
			}, *res.Response, nil
		case service.ValidationError:
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: res.Err.Error()}},
			}, model.ChatResponse{}, nil
		default:
			return nil, model.ChatResponse{}, res.Err
		}
	}
}
