package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/vitormoschetta/go-echo-chat/internal/model"
)

// EchoPrefix é prefixado à mensagem do usuário
const EchoPrefix = "Echo: "

// TimestampLayout é ISO-8601 em UTC com milissegundos
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrValidation indica requisição rejeitada antes de qualquer lógica
var ErrValidation = errors.New(model.ErrMessageMissing)

// InternalError embrulha uma falha inesperada durante o processamento
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return "internal error"
	}
	return e.Err.Error()
}

func (e *InternalError) Unwrap() error { return e.Err }

// NewInternalError cria um InternalError a partir de um erro ou de um valor recuperado de panic
func NewInternalError(v any) *InternalError {
	switch t := v.(type) {
	case *InternalError:
		return t
	case error:
		return &InternalError{Err: t}
	default:
		return &InternalError{Err: fmt.Errorf("%v", t)}
	}
}

// ResultKind identifica o desfecho do processamento
type ResultKind int

const (
	Success ResultKind = iota
	ValidationError
	InternalFailure
)

func (k ResultKind) String() string {
	switch k {
	case Success:
		return "success"
	case ValidationError:
		return "validation_error"
	case InternalFailure:
		return "internal_error"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result é o resultado explícito do handler de eco
type Result struct {
	Kind     ResultKind
	Response *model.ChatResponse
	Err      error
}

// Failed cria um Result de falha interna
func Failed(err error) Result {
	return Result{Kind: InternalFailure, Err: NewInternalError(err)}
}

// Echoer é o contrato consumido pelas camadas de transporte
type Echoer interface {
	Handle(req model.ChatRequest) Result
}

// EchoService implementa o bot de eco. Não guarda estado entre chamadas.
type EchoService struct {
	now func() time.Time
}

// NewEchoService cria o serviço; now nil usa time.Now
func NewEchoService(now func() time.Time) *EchoService {
	if now == nil {
		now = time.Now
	}
	return &EchoService{now: now}
}

// Handle valida a requisição e monta a resposta de eco
func (s *EchoService) Handle(req model.ChatRequest) Result {
	msg, err := ValidateMessage(req.Message)
	if err != nil {
		return Result{Kind: ValidationError, Err: err}
	}

	return Result{
		Kind: Success,
		Response: &model.ChatResponse{
			Response:  EchoPrefix + msg,
			Timestamp: s.now().UTC().Format(TimestampLayout),
		},
	}
}

// ValidateMessage aplica as regras em ordem: presente, string, não vazia após trim.
// Retorna o valor original, sem trim.
func ValidateMessage(raw json.RawMessage) (string, error) {
	trimmedRaw := strings.TrimSpace(string(raw))
	if trimmedRaw == "" || trimmedRaw == "null" {
		return "", ErrValidation
	}

	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", ErrValidation
	}

	if strings.TrimFunc(msg, isTrimSpace) == "" {
		return "", ErrValidation
	}
	return msg, nil
}

// isTrimSpace considera espaços Unicode e o BOM (U+FEFF), exceto NEL (U+0085)
func isTrimSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return unicode.IsSpace(r) || r == '\uFEFF'
}
