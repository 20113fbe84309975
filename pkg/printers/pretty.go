package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/marker/pkg/highlight"
)

type PrettyPrint struct {
	ShowID bool
}

var (
	spacing = strings.Repeat(" ", len("01HZX5M8Q4R9T2V7W1Y3Z6B8D0  "))
)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" highlight")
	default:
		_, _ = c.Println(" highlights")
	}
}

// Page prints a page's highlights: swatch, content excerpt, wrapped notes.
func (pp *PrettyPrint) Page(recs ...*highlight.Record) {
	if len(recs) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Print(spacing)
		}
		_, _ = f.Print(" none\n\n")
		return
	}

	t := color.New()
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	n := color.New(color.Faint, color.Italic)

	for _, r := range recs {
		if pp.ShowID {
			_, _ = y.Print(r.ID)
			if pad := len(spacing) - len(r.ID); pad > 0 {
				_, _ = y.Print(strings.Repeat(" ", pad))
			}
		}
		_, _ = swatchColor(r.ResolvedColor()).Print("▍ ")
		_, _ = t.Printf("%s\n", excerpt(r))
		for _, note := range r.Notes {
			if strings.TrimSpace(note) == "" {
				continue
			}
			for _, line := range strings.Split(wordwrap.String(note, 72), "\n") {
				if pp.ShowID {
					_, _ = n.Print(spacing)
				}
				_, _ = n.Printf("  ↳ %s\n", line)
			}
		}
	}
	_, _ = t.Println("")
}

func excerpt(r *highlight.Record) string {
	s := strings.TrimSpace(r.Content)
	if s == "" {
		s = fmt.Sprintf("(%s) %s", r.Type, r.AnchorPath)
	}
	if len([]rune(s)) > 72 {
		s = string([]rune(s)[:71]) + "…"
	}
	return s
}

// swatchColor maps a hex highlight color to the closest terminal color so
// the listing hints at the stored color without truecolor output.
func swatchColor(hex string) *color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.New(color.FgHiYellow)
	}
	h, _, l := c.Hsl()
	if l < 0.15 {
		return color.New(color.FgHiBlack)
	}
	switch {
	case h < 20 || h >= 330:
		return color.New(color.FgHiRed)
	case h < 50:
		return color.New(color.FgHiYellow)
	case h < 70:
		return color.New(color.FgHiYellow)
	case h < 160:
		return color.New(color.FgHiGreen)
	case h < 260:
		return color.New(color.FgHiCyan)
	default:
		return color.New(color.FgHiMagenta)
	}
}
