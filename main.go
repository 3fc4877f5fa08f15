package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/vitormoschetta/go-echo-chat/internal/config"
	"github.com/vitormoschetta/go-echo-chat/internal/handler"
	"github.com/vitormoschetta/go-echo-chat/internal/server"
	"github.com/vitormoschetta/go-echo-chat/internal/serverless"
	"github.com/vitormoschetta/go-echo-chat/internal/service"
)

// Binário da função: roda no host de funções por padrão,
// ou como servidor HTTP quando RUN_HTTP_SERVER=true.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded")
	}

	cfg := config.FromEnv()

	srv, err := server.NewServer(cfg, service.NewEchoService(nil))
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	h := handler.NewHandler(srv)
	srv.SetupRouter(h.HandleRoot, h.HandleHealth, h.HandleChat)

	if cfg.RunHTTPServer {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		srv.Start(ctx)
		return
	}

	log.Printf("Starting function handler (prefix %q)", cfg.FunctionPrefix)
	lambda.Start(serverless.New(srv.Router, cfg.FunctionPrefix).Handle)
}
