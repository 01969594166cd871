// Package terminal is the interactive front end of the console: it renders
// the page as text and implements the modal dialogs on a line-oriented
// input stream.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/rogerio-castellano/abc-console/internal/console"
)

// CancelInput typed at a prompt cancels it.
const CancelInput = "."

const legendWidth = 30

// Terminal reads lines from in and writes to out. All reads, including the
// ones done by dialogs, go through one reader goroutine.
type Terminal struct {
	lines <-chan string

	outMu  sync.Mutex
	out    io.Writer
	dialog sync.Mutex
}

func New(in io.Reader, out io.Writer) *Terminal {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	return &Terminal{lines: lines, out: out}
}

func (t *Terminal) printf(format string, args ...any) {
	t.outMu.Lock()
	defer t.outMu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

// readLine returns io.EOF once the input is exhausted.
func (t *Terminal) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (t *Terminal) Alert(_ context.Context, message string) {
	t.dialog.Lock()
	defer t.dialog.Unlock()
	t.printf("! %s\n", message)
}

// Prompt shows message with the default in brackets. An empty answer keeps
// the default; CancelInput or end of input cancels.
func (t *Terminal) Prompt(ctx context.Context, message, defaultValue string) (string, bool) {
	t.dialog.Lock()
	defer t.dialog.Unlock()

	if defaultValue != "" {
		t.printf("%s [%s] ", message, defaultValue)
	} else {
		t.printf("%s ", message)
	}

	line, err := t.readLine(ctx)
	if err != nil {
		t.printf("\n")
		return "", false
	}
	switch line {
	case CancelInput:
		return "", false
	case "":
		return defaultValue, true
	}
	return line, true
}

func (t *Terminal) Confirm(ctx context.Context, message string) bool {
	t.dialog.Lock()
	defer t.dialog.Unlock()

	t.printf("%s [y/N] ", message)
	line, err := t.readLine(ctx)
	if err != nil {
		t.printf("\n")
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

// Render prints the table, the summary block and the chart legend.
func (t *Terminal) Render(p console.Page) {
	var b strings.Builder

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#\t%s\t\n", strings.Join(console.Columns, "\t"))
	for i, row := range p.Rows {
		fmt.Fprintf(tw, "%d\t%s\t\n", i+1, strings.Join(row.Cells, "\t"))
	}
	tw.Flush()
	if len(p.Rows) == 0 {
		b.WriteString("(no products)\n")
	}

	if len(p.Summary) > 0 {
		b.WriteString("\n")
		for _, line := range p.Summary {
			b.WriteString(line + "\n")
		}
	}
	if p.Chart != nil {
		if legend := p.Chart.Legend(legendWidth); legend != "" {
			b.WriteString("\n" + legend)
		}
	}

	t.printf("%s", b.String())
}
