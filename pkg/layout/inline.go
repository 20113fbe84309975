package layout

import (
	"strconv"

	"tableflip.dev/marker/pkg/doc"
)

const (
	defaultEmbedCols = 8
	defaultEmbedRows = 2
)

// layoutInline flows text nodes and embeds across wrapped lines starting at
// (x, y) and returns the y coordinate below the last line.
func (e *Engine) layoutInline(nodes []*doc.Node, x, y, width int) int {
	lb := &lineBuilder{eng: e, left: x, right: x + width, y: y, x: x}
	for _, n := range nodes {
		if n.Kind == doc.TextNode {
			lb.addText(n)
		} else {
			lb.addEmbed(n)
		}
	}
	lb.flush()
	return lb.y
}

type lineBuilder struct {
	eng         *Engine
	left, right int
	y           int
	x           int
	line        []item
	started     bool
}

func (lb *lineBuilder) cell() int { return lb.eng.Metrics.CellWidth }
func (lb *lineBuilder) lh() int   { return lb.eng.Metrics.LineHeight }

// flush commits the pending line: items get the line's top coordinate and
// the cursor advances by the tallest item.
func (lb *lineBuilder) flush() {
	if len(lb.line) == 0 {
		if lb.started {
			lb.y += lb.lh()
			lb.started = false
		}
		lb.x = lb.left
		return
	}
	height := lb.lh()
	for _, it := range lb.line {
		if it.rect.H > height {
			height = it.rect.H
		}
	}
	for _, it := range lb.line {
		it.rect.Y = lb.y
		lb.eng.items = append(lb.eng.items, it)
		if it.kind == itemEmbed {
			lb.eng.boxes[it.node] = it.rect
		}
	}
	lb.line = lb.line[:0]
	lb.y += height
	lb.x = lb.left
	lb.started = false
}

func (lb *lineBuilder) addText(n *doc.Node) {
	runes := []rune(n.Text)
	if len(runes) == 0 {
		return
	}
	fragStart := 0
	fragX := lb.x
	closeFrag := func(end int) {
		if end <= fragStart {
			return
		}
		lb.line = append(lb.line, item{
			kind:  itemText,
			node:  n,
			start: fragStart,
			end:   end,
			rect:  Rect{X: fragX, W: lb.x - fragX, H: lb.lh()},
		})
	}

	i := 0
	for i < len(runes) {
		j, tw := nextToken(runes, i, lb.cell())
		breaks := runes[i] != ' ' && lb.x+tw > lb.right && lb.x > lb.left
		if breaks {
			closeFrag(i)
			lb.flush()
			fragStart = i
			fragX = lb.x
		}
		if runes[i] != ' ' && tw > lb.right-lb.left {
			// token wider than the line: hard-break per rune
			for i < j {
				w := runeW(runes[i], lb.cell())
				if lb.x+w > lb.right && lb.x > lb.left {
					closeFrag(i)
					lb.flush()
					fragStart = i
					fragX = lb.x
				}
				lb.x += w
				i++
				lb.started = true
			}
			continue
		}
		lb.x += tw
		lb.started = true
		i = j
	}
	closeFrag(len(runes))
}

func (lb *lineBuilder) addEmbed(n *doc.Node) {
	cols := attrInt(n, "cols", defaultEmbedCols)
	rows := attrInt(n, "rows", defaultEmbedRows)
	w := cols * lb.cell()
	h := rows * lb.lh()
	if lb.x+w > lb.right && lb.x > lb.left {
		lb.flush()
	}
	lb.line = append(lb.line, item{
		kind: itemEmbed,
		node: n,
		rect: Rect{X: lb.x, W: w, H: h},
	})
	lb.x += w
	lb.started = true
}

// nextToken returns the end index and pixel width of the token at i: a
// maximal run of non-space runes, or a single space.
func nextToken(runes []rune, i, cell int) (int, int) {
	if runes[i] == ' ' {
		return i + 1, runeW(' ', cell)
	}
	j := i
	w := 0
	for j < len(runes) && runes[j] != ' ' {
		w += runeW(runes[j], cell)
		j++
	}
	return j, w
}

func attrInt(n *doc.Node, name string, fallback int) int {
	v, err := strconv.Atoi(n.Attr(name))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
