package serverless

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

// Adapter traduz eventos de proxy do host de funções para o router HTTP
type Adapter struct {
	proxy *httpadapter.HandlerAdapter
}

// New cria um Adapter. prefix é removido do início do path antes do roteamento.
func New(h http.Handler, prefix string) *Adapter {
	proxy := httpadapter.New(h)
	if prefix != "" {
		proxy.StripBasePath(prefix)
	}
	return &Adapter{proxy: proxy}
}

// Handle atende um evento e devolve a resposta no formato do host
func (a *Adapter) Handle(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	// O id da invocação vira o X-Request-Id visto pelo middleware.RequestID
	if id := ev.RequestContext.RequestID; id != "" {
		if ev.MultiValueHeaders != nil {
			if len(ev.MultiValueHeaders["X-Request-Id"]) == 0 {
				ev.MultiValueHeaders["X-Request-Id"] = []string{id}
			}
		} else {
			headers := make(map[string]string, len(ev.Headers)+1)
			for k, v := range ev.Headers {
				headers[k] = v
			}
			if headers["X-Request-Id"] == "" {
				headers["X-Request-Id"] = id
			}
			ev.Headers = headers
		}
	}

	return a.proxy.ProxyWithContext(ctx, ev)
}
