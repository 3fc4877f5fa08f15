package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"

	"github.com/vitormoschetta/go-echo-chat/internal/model"
	"github.com/vitormoschetta/go-echo-chat/internal/server"
	"github.com/vitormoschetta/go-echo-chat/internal/service"
)

const maxLogPreview = 2048

// Handler contém as dependências necessárias para os handlers HTTP
type Handler struct {
	server *server.Server
}

// NewHandler cria uma nova instância do Handler
func NewHandler(srv *server.Server) *Handler {
	return &Handler{
		server: srv,
	}
}

// HandleRoot retorna informações sobre o serviço
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	endpoints := map[string]interface{}{
		"chat": map[string]interface{}{
			"url":         "/api/chat",
			"method":      "POST",
			"description": "Send a message and receive an echo",
			"example": map[string]string{
				"message": "Hello bot, how are you?",
			},
		},
		"health": map[string]interface{}{
			"url":         "/health",
			"method":      "GET",
			"description": "Health check endpoint",
		},
	}
	if h.server.MCP != nil {
		endpoints["mcp"] = map[string]interface{}{
			"url":         "/mcp",
			"description": "MCP streamable HTTP endpoint exposing the echo tool",
		}
	}

	server.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"service":   "Echo Chat",
		"endpoints": endpoints,
	})
}

// HandleHealth retorna o status de saúde do servidor
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// HandleChat processa mensagens enviadas ao bot
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	req, raw, err := decodeChatRequest(w, r, h.server.Config.MaxBodyBytes)
	if err != nil {
		h.writeResult(w, service.Failed(err))
		return
	}

	log.Printf("Received POST request to %s: %s", r.URL.Path, preview(raw))

	res := h.server.Echo.Handle(req)
	if res.Kind == service.Success {
		log.Printf("Sending successful response: response=%q timestamp=%s", res.Response.Response, res.Response.Timestamp)
	}
	h.writeResult(w, res)
}

// writeResult traduz o Result do serviço para status e corpo HTTP
func (h *Handler) writeResult(w http.ResponseWriter, res service.Result) {
	switch res.Kind {
	case service.Success:
		server.WriteJSON(w, http.StatusOK, res.Response)
	case service.ValidationError:
		log.Printf("Validation error: %v", res.Err)
		server.WriteJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: model.ErrMessageMissing})
	default:
		server.WriteInternalError(w, res.Err, h.server.Config.ExposeErrorDetails)
	}
}

// decodeChatRequest lê o corpo como o parser JSON do host faria: corpo que não é JSON
// vira objeto vazio; JSON malformado, primitivo no topo ou acima do limite é falha.
func decodeChatRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (model.ChatRequest, []byte, error) {
	var req model.ChatRequest

	if r.Body == nil || !isJSONContentType(r.Header.Get("Content-Type")) {
		return req, nil, nil
	}
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, nil, fmt.Errorf("request entity too large (limit %d bytes)", tooLarge.Limit)
		}
		return req, nil, fmt.Errorf("failed to read request body: %w", err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return req, body, nil
	}

	switch trimmed[0] {
	case '{':
		// Mapa em vez de struct: a chave "message" precisa casar exatamente
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return req, body, fmt.Errorf("invalid JSON body: %w", err)
		}
		req.Message = fields["message"]
	case '[':
		if !json.Valid(trimmed) {
			return req, body, fmt.Errorf("invalid JSON body: malformed array")
		}
	default:
		return req, body, fmt.Errorf("invalid JSON body: expected object or array, got %q", string(trimmed[0]))
	}

	return req, body, nil
}

func isJSONContentType(ct string) bool {
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

func preview(raw []byte) string {
	if len(raw) == 0 {
		return "{}"
	}
	s := string(raw)
	if len(s) > maxLogPreview {
		s = s[:maxLogPreview] + "...<truncated>"
	}
	return s
}
