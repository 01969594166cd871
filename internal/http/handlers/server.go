package handlers

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/rogerio-castellano/abc-console/internal/console"
)

//go:embed templates/page.gohtml
var templatesFS embed.FS

// Console is the part of the inventory console the web mirror needs.
type Console interface {
	Page() console.Page
	Post(ctx context.Context, ev console.Event)
}

// Server serves a read-only view of the console page. ctx is the context
// handed to flows the mirror posts; it outlives individual requests.
type Server struct {
	console Console
	ctx     context.Context
	page    *template.Template
	logger  *slog.Logger
}

func NewServer(ctx context.Context, c Console, logger *slog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/page.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		console: c,
		ctx:     ctx,
		page:    tmpl,
		logger:  logger,
	}, nil
}
