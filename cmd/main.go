package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/vitormoschetta/go-echo-chat/internal/config"
	"github.com/vitormoschetta/go-echo-chat/internal/handler"
	"github.com/vitormoschetta/go-echo-chat/internal/server"
	"github.com/vitormoschetta/go-echo-chat/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.FromEnv()

	// Criar servidor
	srv, err := server.NewServer(cfg, service.NewEchoService(nil))
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Criar handlers
	h := handler.NewHandler(srv)

	// Configurar rotas com os handlers
	srv.SetupRouter(h.HandleRoot, h.HandleHealth, h.HandleChat)

	// Iniciar servidor
	srv.Start(ctx)
}
