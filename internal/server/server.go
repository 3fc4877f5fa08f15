package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vitormoschetta/go-echo-chat/internal/config"
	"github.com/vitormoschetta/go-echo-chat/internal/mcpserver"
	"github.com/vitormoschetta/go-echo-chat/internal/service"
)

// Server representa o servidor HTTP com todas as dependências
type Server struct {
	Config config.Config
	Echo   service.Echoer
	MCP    http.Handler
	Router chi.Router
}

// NewServer cria uma nova instância do servidor
func NewServer(cfg config.Config, echo service.Echoer) (*Server, error) {
	if echo == nil {
		return nil, fmt.Errorf("echo service is required")
	}

	s := &Server{
		Config: cfg,
		Echo:   echo,
	}

	if cfg.EnableMCP {
		s.MCP = mcpserver.Handler(mcpserver.New(echo))
		log.Printf("✅ MCP tool server enabled at /mcp")
	}

	return s, nil
}

// SetupRouter configura as rotas e middlewares do Chi
func (s *Server) SetupRouter(
	handleRoot func(http.ResponseWriter, *http.Request),
	handleHealth func(http.ResponseWriter, *http.Request),
	handleChat func(http.ResponseWriter, *http.Request),
) {
	r := chi.NewRouter()

	// CORS primeiro para que respostas de erro também levem os headers
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.Config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	if allowsAnyOrigin(s.Config.AllowedOrigins) {
		r.Use(anyOrigin)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(Recoverer(s.Config.ExposeErrorDetails))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.Config.RequestTimeout))

		r.Get("/", handleRoot)
		r.Get("/health", handleHealth)

		// Caminho interno da função
		r.Post("/chat", handleChat)

		// API Routes
		r.Route("/api", func(r chi.Router) {
			r.Post("/chat", handleChat)
		})
	})

	// Sessões MCP podem ficar abertas além do timeout das rotas REST
	if s.MCP != nil {
		r.Handle("/mcp", s.MCP)
	}

	s.Router = r
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// anyOrigin garante Access-Control-Allow-Origin: * também em requisições sem Origin
func anyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if w.Header().Get("Access-Control-Allow-Origin") == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		next.ServeHTTP(w, r)
	})
}

// Start inicia o servidor HTTP com graceful shutdown
func (s *Server) Start(ctx context.Context) {
	httpServer := &http.Server{
		Addr:         s.Config.Addr(),
		Handler:      s.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("╔════════════════════════════════════════════════════╗")
		log.Println("║   Echo Chat HTTP Server                            ║")
		log.Println("╚════════════════════════════════════════════════════╝")
		log.Println("")
		log.Printf("🚀 Servidor HTTP iniciado na porta %s", s.Config.Addr())
		log.Println("📦 Router: Chi v5")
		log.Println("")
		log.Println("📌 Endpoints disponíveis:")
		log.Println("   • Info:      / (GET)")
		log.Println("   • Health:    /health (GET)")
		log.Println("   • Chat API:  /api/chat (POST)")
		if s.MCP != nil {
			log.Println("   • MCP:       /mcp")
		}
		log.Println("")
		log.Println("💡 Exemplo de uso com curl:")
		log.Printf(`   curl -X POST http://localhost:%s/api/chat \`, s.Config.Port)
		log.Println(`        -H "Content-Type: application/json" \`)
		log.Println(`        -d '{"message":"Hello bot, how are you?"}'`)
		log.Println("")
		log.Println("⚠️  Pressione Ctrl+C para parar o servidor")
		log.Println("")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Aguardar sinal de interrupção
	<-ctx.Done()
	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
