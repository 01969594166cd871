// Package chart renders the ABC share pie as SVG for the web mirror and as a
// bar legend for the terminal.
package chart

import (
	"fmt"
	"html"
	"math"
	"strings"
	"sync"
)

// Slice is one wedge of the pie.
type Slice struct {
	Label string
	Value float64
	Color string
}

// Pie is a chart widget. It is owned by whoever created it and must be
// destroyed before a replacement is created.
type Pie struct {
	mu        sync.RWMutex
	slices    []Slice
	destroyed bool
}

func NewPie(slices ...Slice) *Pie {
	return &Pie{slices: append([]Slice(nil), slices...)}
}

// Destroy releases the widget. A destroyed pie renders nothing.
func (p *Pie) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.destroyed = true
	p.slices = nil
}

func (p *Pie) Destroyed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.destroyed
}

// Slices returns a copy of the wedges, nil once destroyed.
func (p *Pie) Slices() []Slice {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.destroyed {
		return nil
	}
	return append([]Slice(nil), p.slices...)
}

func total(slices []Slice) float64 {
	var sum float64
	for _, s := range slices {
		if s.Value > 0 {
			sum += s.Value
		}
	}
	return sum
}

// SVG draws the pie in a size×size square. Wedges start at twelve o'clock
// and run clockwise. Non-positive values get no wedge.
func (p *Pie) SVG(size int) string {
	slices := p.Slices()
	if slices == nil {
		return ""
	}

	r := float64(size) / 2
	cx, cy := r, r

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, size, size, size, size)

	sum := total(slices)
	if sum == 0 {
		fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="#cccccc"/>`, cx, cy, r-1)
		b.WriteString(`</svg>`)
		return b.String()
	}

	angle := -math.Pi / 2
	for _, s := range slices {
		if s.Value <= 0 {
			continue
		}
		frac := s.Value / sum
		title := html.EscapeString(fmt.Sprintf("%s: %.2f", s.Label, s.Value))
		color := html.EscapeString(s.Color)

		if frac >= 1 {
			fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"><title>%s</title></circle>`, cx, cy, r, color, title)
			break
		}

		end := angle + frac*2*math.Pi
		x0, y0 := cx+r*math.Cos(angle), cy+r*math.Sin(angle)
		x1, y1 := cx+r*math.Cos(end), cy+r*math.Sin(end)
		large := 0
		if frac > 0.5 {
			large = 1
		}
		fmt.Fprintf(&b, `<path d="M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f Z" fill="%s"><title>%s</title></path>`,
			cx, cy, x0, y0, r, r, large, x1, y1, color, title)
		angle = end
	}

	b.WriteString(`</svg>`)
	return b.String()
}

// Legend renders one line per wedge with a bar proportional to its share of
// width characters. Values are printed as given, to two decimals.
func (p *Pie) Legend(width int) string {
	slices := p.Slices()
	if slices == nil {
		return ""
	}

	labelWidth := 0
	for _, s := range slices {
		labelWidth = max(labelWidth, len(s.Label))
	}

	sum := total(slices)
	var b strings.Builder
	for _, s := range slices {
		n := 0
		if sum > 0 && s.Value > 0 {
			n = int(math.Round(s.Value / sum * float64(width)))
		}
		bar := strings.Repeat("#", n) + strings.Repeat(".", max(width-n, 0))
		fmt.Fprintf(&b, "%-*s |%s| %.2f\n", labelWidth, s.Label, bar, s.Value)
	}
	return b.String()
}
