package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vitormoschetta/go-echo-chat/internal/model"
	"github.com/vitormoschetta/go-echo-chat/internal/service"
)

// WriteJSON escreve v como JSON com o status informado
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// WriteInternalError registra a falha e responde 500.
// O texto da falha vai em details quando exposeDetails é true.
func WriteInternalError(w http.ResponseWriter, err error, exposeDetails bool) {
	log.Printf("Unhandled server error: %v", err)

	body := model.ErrorResponse{Error: model.ErrInternal}
	if exposeDetails && err != nil {
		body.Details = err.Error()
	}
	WriteJSON(w, http.StatusInternalServerError, body)
}

// Recoverer converte qualquer panic em uma resposta 500 no formato ErrorResponse
func Recoverer(exposeDetails bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				middleware.PrintPrettyStack(rvr)
				WriteInternalError(w, service.NewInternalError(rvr), exposeDetails)
			}()

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
