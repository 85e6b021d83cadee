package services

import (
	"context"

	"github.com/BillChill/billchill-backend/pkg/llm"
)

// ChatCompleter is the slice of the LLM client the services use.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, req llm.ChatRequest) (string, error)
	HasAPIKey() bool
}

var _ ChatCompleter = (*llm.Client)(nil)
