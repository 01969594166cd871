package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/abc-console/internal/console"
)

var errQuit = errors.New("quit")

type command struct {
	usage  string
	render bool
	run    func(ctx context.Context, args []string) error
}

// Loop maps typed commands to console events.
type Loop struct {
	console  *console.Console
	term     *Terminal
	commands map[string]command
}

func NewLoop(c *console.Console, t *Terminal) *Loop {
	l := &Loop{console: c, term: t}
	l.commands = map[string]command{
		"add":      {usage: "add                fill in the new-product form and submit it", render: true, run: l.add},
		"list":     {usage: "list               reload the product list", render: true, run: l.dispatch(console.EventLoad)},
		"classify": {usage: "classify           refresh the ABC classification", render: true, run: l.dispatch(console.EventRefresh)},
		"edit":     {usage: "edit <row>         edit the product on that row", render: true, run: l.edit},
		"delete":   {usage: "delete <row>       delete the product on that row", render: true, run: l.remove},
		"show":     {usage: "show               print the page again", render: true, run: noop},
		"help":     {usage: "help               list commands", run: l.help},
		"quit":     {usage: "quit               leave the console", run: quit},
	}
	return l
}

// Run renders the page and processes commands until quit, end of input or
// ctx is done. End of input and quit return nil.
func (l *Loop) Run(ctx context.Context) error {
	l.term.Render(l.console.Page())
	for {
		l.term.printf("> ")
		line, err := l.term.readLine(ctx)
		if errors.Is(err, io.EOF) {
			l.term.printf("\n")
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, ok := l.commands[strings.ToLower(fields[0])]
		if !ok {
			l.term.printf("unknown command %q, type help for the list\n", fields[0])
			continue
		}

		if err := cmd.run(ctx, fields[1:]); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			l.term.printf("%v\n", err)
			continue
		}
		if cmd.render {
			l.term.Render(l.console.Page())
		}
	}
}

func (l *Loop) dispatch(ev console.Event) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		return l.console.Dispatch(ctx, ev, nil)
	}
}

// add fills the form field by field. Values typed before a cancel stay in
// the form, the way a half-filled page form would.
func (l *Loop) add(ctx context.Context, _ []string) error {
	form := l.console.Form()
	fields := []struct {
		label string
		value *string
	}{
		{"Product name:", &form.Name},
		{"Unit price:", &form.UnitPrice},
		{"Annual consumption:", &form.AnnualConsumption},
	}
	for _, f := range fields {
		v, ok := l.term.Prompt(ctx, f.label, *f.value)
		if !ok {
			l.console.SetForm(form)
			return nil
		}
		*f.value = v
	}
	l.console.SetForm(form)
	return l.console.Dispatch(ctx, console.EventSubmit, nil)
}

func (l *Loop) edit(ctx context.Context, args []string) error {
	row, err := l.row(args)
	if err != nil {
		return err
	}
	row.Edit(ctx)
	return nil
}

func (l *Loop) remove(ctx context.Context, args []string) error {
	row, err := l.row(args)
	if err != nil {
		return err
	}
	row.Delete(ctx)
	return nil
}

func (l *Loop) row(args []string) (console.Row, error) {
	if len(args) != 1 {
		return console.Row{}, errors.New("expected a row number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return console.Row{}, fmt.Errorf("invalid row %q", args[0])
	}
	rows := l.console.Page().Rows
	if n < 1 || n > len(rows) {
		return console.Row{}, fmt.Errorf("no row %d (table has %d)", n, len(rows))
	}
	return rows[n-1], nil
}

func (l *Loop) help(context.Context, []string) error {
	names := make([]string, 0, len(l.commands))
	for name := range l.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		l.term.printf("  %s\n", l.commands[name].usage)
	}
	l.term.printf("  at a prompt, an empty answer keeps the value in brackets and %q cancels\n", CancelInput)
	return nil
}

func noop(context.Context, []string) error { return nil }

func quit(context.Context, []string) error { return errQuit }
