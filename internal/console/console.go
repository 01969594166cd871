// Package console is the inventory page controller. It turns UI events into
// backend calls and re-renders the page from whatever the backend returns.
//
// The console keeps no authoritative state. After every mutation it drops
// its view and fetches the list and the classification again. The only
// resource it owns is the chart widget, which is destroyed and recreated on
// every classification refresh.
package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"github.com/rogerio-castellano/abc-console/internal/models"
	"github.com/rogerio-castellano/abc-console/internal/repo"
)

// Event names a UI interaction.
type Event string

const (
	EventSubmit  Event = "submit"
	EventLoad    Event = "load"
	EventRefresh Event = "refresh"
	EventEdit    Event = "edit"
	EventDelete  Event = "delete"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrNoRow        = errors.New("event requires a row")
)

type action struct {
	id  string
	log *slog.Logger
	row *Row
}

type handler func(ctx context.Context, a action)

// Console binds user interactions to backend calls.
type Console struct {
	products repo.ProductRepository
	dialogs  Dialogs
	logger   *slog.Logger
	handlers map[Event]handler

	mu   sync.Mutex
	page Page

	inflight conc.WaitGroup
}

func New(products repo.ProductRepository, dialogs Dialogs, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Console{
		products: products,
		dialogs:  dialogs,
		logger:   logger,
	}
	c.handlers = map[Event]handler{
		EventSubmit:  c.submitProduct,
		EventLoad:    c.loadProducts,
		EventRefresh: c.refreshClassification,
		EventEdit:    c.editProduct,
		EventDelete:  c.deleteProduct,
	}
	return c
}

// Dispatch runs the handler of ev and returns when its flow is finished.
// Edit and delete need the row whose control was activated.
func (c *Console) Dispatch(ctx context.Context, ev Event, row *Row) error {
	h, ok := c.handlers[ev]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev)
	}
	if (ev == EventEdit || ev == EventDelete) && row == nil {
		return fmt.Errorf("%s: %w", ev, ErrNoRow)
	}

	id := uuid.NewString()
	a := action{
		id:  id,
		log: c.logger.With("event", string(ev), "action_id", id),
		row: row,
	}
	a.log.Debug("dispatch")
	h(repo.WithRequestID(ctx, id), a)
	return nil
}

// Post dispatches ev on its own goroutine. Posted flows are not ordered or
// synchronized with each other.
func (c *Console) Post(ctx context.Context, ev Event) {
	c.inflight.Go(func() {
		c.dispatchLogged(ctx, ev, nil)
	})
}

func (c *Console) dispatchLogged(ctx context.Context, ev Event, row *Row) {
	if err := c.Dispatch(ctx, ev, row); err != nil {
		c.logger.Error("dispatch failed", "event", string(ev), "error", err)
	}
}

// Wait blocks until every posted flow has finished.
func (c *Console) Wait() {
	c.inflight.Wait()
}

// Start performs the initial page load: the product list and the
// classification are fetched concurrently, with no ordering between them.
//
// Start waits on its own group, so flows posted meanwhile are not joined.
func (c *Console) Start(ctx context.Context) {
	var initial conc.WaitGroup
	initial.Go(func() { c.dispatchLogged(ctx, EventLoad, nil) })
	initial.Go(func() { c.dispatchLogged(ctx, EventRefresh, nil) })
	initial.Wait()
}

// Page returns a snapshot of the rendered page.
func (c *Console) Page() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page.clone()
}

// Form returns the current form fields.
func (c *Console) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page.Form
}

// SetForm replaces the form fields, as typing into the form would.
func (c *Console) SetForm(f Form) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page.Form = f
}

func (c *Console) resetForm() {
	c.SetForm(Form{})
}

// bind wires fresh edit and delete controls onto every row.
func (c *Console) bind(rows []Row) {
	for i := range rows {
		target := rows[i]
		rows[i].edit = func(ctx context.Context) {
			c.dispatchLogged(ctx, EventEdit, &target)
		}
		rows[i].remove = func(ctx context.Context) {
			c.dispatchLogged(ctx, EventDelete, &target)
		}
	}
}

func (c *Console) buildRows(products []models.Product) []Row {
	rows := make([]Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow(p))
	}
	c.bind(rows)
	return rows
}

func (c *Console) renderTable(products []models.Product) {
	rows := c.buildRows(products)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.page.Rows = rows
}

func (c *Console) renderClassification(cl models.Classification) {
	rows := c.buildRows(cl.Products)
	summary := make([]string, 0, len(models.Categories))
	for _, cat := range models.Categories {
		summary = append(summary, summaryLine(cat, cl.Summary.For(cat)))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.page.Rows = rows
	c.page.Summary = summary
	if c.page.Chart != nil {
		c.page.Chart.Destroy()
	}
	c.page.Chart = summaryPie(cl.Summary)
}
