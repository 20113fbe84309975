// Package tui is the terminal host for the highlight engine: it renders a
// markdown page on a fixed cell grid, translates terminal mouse and key
// events into engine pointer events, and keeps the stored highlights in
// sync through the app service.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/marker/pkg/app"
	"tableflip.dev/marker/pkg/doc"
	"tableflip.dev/marker/pkg/engine"
	"tableflip.dev/marker/pkg/highlight"
	"tableflip.dev/marker/pkg/layout"
	"tableflip.dev/marker/pkg/markdown"
	"tableflip.dev/marker/pkg/store"
	"tableflip.dev/marker/pkg/tui/theme"
)

// palette is the color cycle applied by the recolor key.
var palette = []string{
	"#ffeb3b", "#a5d6a7", "#90caf9", "#f48fb1", "#ffcc80",
}

type repaintTickMsg struct{}

type storeEventMsg struct {
	ev store.Event
}

type watchClosedMsg struct{}

// Model is the root Bubble Tea model for the page view.
type Model struct {
	svc  *app.Service
	path string
	page string

	d        *doc.Document
	lay      *layout.Engine
	eng      *engine.Engine
	src      *pageSource
	widget   *notesWidget
	notifier *statusNotifier
	pv       *pageView
	theme    theme.Theme

	vp     viewport.Model
	width  int
	height int

	events <-chan store.Event
	cancel context.CancelFunc

	// handleDrag is set while the engine owns the pointer stream, from a
	// consumed PointerDown until the matching up or cancel.
	handleDrag bool

	// selecting tracks a plain text-selection drag, as opposed to a
	// handle drag owned by the engine.
	selecting bool
	selEl     *doc.Node
	hoverEl   *doc.Node

	status string
}

// New loads the markdown page and assembles the document, layout, and
// highlight engine around it.
func New(service *app.Service, path string) (*Model, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	d, err := markdown.LoadFile(path)
	if err != nil {
		return nil, err
	}

	m := &Model{
		svc:      service,
		path:     path,
		page:     abs,
		d:        d,
		theme:    theme.Default(),
		notifier: &statusNotifier{},
		status:   "ready",
	}
	m.lay = layout.New(d, layout.DefaultMetrics())
	m.src = newPageSource(service, abs)
	m.widget = &notesWidget{
		theme:     m.theme.Notes,
		anchorFor: m.widgetAnchor,
		record:    m.recordByID,
	}
	m.eng = engine.New(engine.Config{
		Doc:      d,
		Layout:   m.lay,
		Source:   m.src,
		Widget:   m.widget,
		Notifier: m.notifier,
		ScrollTo: m.scrollToPixel,
	})

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	if events, err := service.Watch(ctx); err == nil {
		m.events = events
	}

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	m.vp = vp
	m.pv = &pageView{theme: m.theme.Page, lay: m.lay, rend: m.eng.Renderer()}

	m.eng.PlanAndRenderAll()
	return m, nil
}

// Run launches the Bubble Tea program for one markdown page.
func Run(service *app.Service, path string) error {
	m, err := New(service, path)
	if err != nil {
		return err
	}
	defer m.cancel()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitEvent()
}

func (m *Model) waitEvent() tea.Cmd {
	ch := m.events
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return storeEventMsg{ev: ev}
	}
}

// Update routes Bubble Tea messages into the engine and the viewport.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.vp.SetWidth(v.Width)
		m.vp.SetHeight(max(v.Height-1, 1))
		m.eng.Resize(v.Width * m.lay.Metrics.CellWidth)
		m.refresh()

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(v); handled {
			cmds = append(cmds, cmd)
			if pump := m.pumpCmd(); pump != nil {
				cmds = append(cmds, pump)
			}
			return m, tea.Batch(cmds...)
		}

	case tea.MouseClickMsg:
		if v.Button == tea.MouseLeft {
			m.mouseDown(v.X, v.Y)
		}

	case tea.MouseMotionMsg:
		m.mouseMove(v.X, v.Y)

	case tea.MouseReleaseMsg:
		m.mouseUp(v.X, v.Y)

	case repaintTickMsg:
		m.eng.Tick()
		m.refresh()

	case storeEventMsg:
		if v.ev.Type == store.EventPagesInvalidated || v.ev.Page == m.page {
			m.src.reload()
			m.eng.PlanAndRenderAll()
			m.status = "store changed"
			m.refresh()
		}
		cmds = append(cmds, m.waitEvent())

	case watchClosedMsg:
		m.events = nil
	}

	before := m.vp.YOffset
	vp, cmd := m.vp.Update(msg)
	m.vp = vp
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.vp.YOffset != before {
		m.eng.Scroll(m.vp.YOffset * m.lay.Metrics.LineHeight)
	}

	if cmd := m.pumpCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(v tea.KeyMsg) (tea.Cmd, bool) {
	switch v.String() {
	case "ctrl+c", "q":
		return tea.Quit, true
	case "tab":
		m.cycleSelection(1)
		return nil, true
	case "shift+tab":
		m.cycleSelection(-1)
		return nil, true
	case "enter":
		if id, ok := m.eng.Selected(); ok && id != "" {
			m.eng.SelectHighlightByID(id, engine.SelectOptions{OpenWidget: true})
			m.refresh()
		}
		return nil, true
	case "esc":
		m.escape()
		return nil, true
	case "h":
		m.commitSelection()
		return nil, true
	case "d":
		m.deleteSelected()
		return nil, true
	case "c":
		m.recolorSelected()
		return nil, true
	}
	return nil, false
}

func (m *Model) escape() {
	switch {
	case m.handleDrag:
		m.eng.PointerCancel(engine.ModalityMouse)
		m.handleDrag = false
		m.status = "resize cancelled"
	case m.selecting || m.d.Selection().Active():
		m.selecting = false
		m.selEl = nil
		m.d.Selection().Collapse()
		m.status = "selection cleared"
	default:
		m.eng.ClearSelection()
		m.status = "ready"
	}
	m.refresh()
}

// cycleSelection moves selection through the page's highlights in creation
// order.
func (m *Model) cycleSelection(dir int) {
	recs := m.src.CurrentHighlights()
	if len(recs) == 0 {
		m.status = "no highlights on this page"
		m.refresh()
		return
	}
	cur := -1
	if id, ok := m.eng.Selected(); ok {
		for i, rec := range recs {
			if rec.ID == id {
				cur = i
				break
			}
		}
	}
	next := (cur + dir + len(recs)) % len(recs)
	rec := recs[next]
	if m.eng.SelectHighlightByID(rec.ID, engine.SelectOptions{
		ScrollIntoView: true,
		NotifyExternal: true,
	}) {
		m.status = fmt.Sprintf("selected %d/%d", next+1, len(recs))
	}
	m.refresh()
}

// commitSelection turns the active text selection into a stored highlight.
func (m *Model) commitSelection() {
	sel := m.d.Selection()
	if !sel.Active() || m.selEl == nil {
		m.status = "nothing selected · drag over text first"
		m.refresh()
		return
	}
	start, end := sel.Ordered(m.d.Root())
	startOff := doc.CanonicalOffset(m.selEl, start)
	endOff := doc.CanonicalOffset(m.selEl, end)
	if startOff == endOff {
		m.status = "empty selection"
		m.refresh()
		return
	}
	content := sel.Text(m.d.Root())
	sel.Collapse()
	m.selecting = false

	rec := &highlight.Record{
		Type:        highlight.TypeText,
		AnchorPath:  doc.PathOf(m.selEl),
		StartOffset: startOff,
		EndOffset:   endOff,
		Content:     content,
	}
	m.selEl = nil
	stored, err := m.svc.Add(context.Background(), m.page, rec)
	if err != nil {
		m.status = "add failed: " + err.Error()
		m.refresh()
		return
	}
	m.src.reload()
	m.eng.PlanAndRenderAll()
	m.eng.SelectHighlightByID(stored.ID, engine.SelectOptions{})
	m.status = "highlighted"
	m.refresh()
}

func (m *Model) deleteSelected() {
	id, ok := m.eng.Selected()
	if !ok || id == "" {
		m.status = "no highlight selected"
		m.refresh()
		return
	}
	m.eng.ClearSelection()
	if err := m.svc.Delete(context.Background(), m.page, id); err != nil {
		m.status = "delete failed: " + err.Error()
	} else {
		m.status = "deleted"
	}
	m.src.reload()
	m.eng.PlanAndRenderAll()
	m.refresh()
}

func (m *Model) recolorSelected() {
	id, ok := m.eng.Selected()
	if !ok || id == "" {
		m.status = "no highlight selected"
		m.refresh()
		return
	}
	rec := m.recordByID(id)
	if rec == nil {
		return
	}
	next := palette[0]
	for i, c := range palette {
		if c == rec.ResolvedColor() {
			next = palette[(i+1)%len(palette)]
			break
		}
	}
	if _, err := m.svc.SetColor(context.Background(), m.page, id, next); err != nil {
		m.status = "recolor failed: " + err.Error()
	} else {
		m.status = "color " + next
	}
	m.src.reload()
	m.eng.PlanAndRenderAll()
	m.refresh()
}

// docPoint maps a terminal cell to the document pixel at its center.
func (m *Model) docPoint(col, row int) (int, int) {
	g := m.lay.Metrics
	x := col*g.CellWidth + g.CellWidth/2
	y := (row+m.vp.YOffset)*g.LineHeight + g.LineHeight/2
	return x, y
}

func (m *Model) mouseDown(col, row int) {
	if row >= m.vp.Height() {
		return
	}
	x, y := m.docPoint(col, row)
	if m.eng.PointerDown(engine.ModalityMouse, x, y) {
		m.handleDrag = true
		m.status = "resizing"
		m.refresh()
		return
	}
	// Click on a highlight selects it; a click on plain text starts a
	// fresh selection drag.
	if box, ok := m.eng.Renderer().HitTest(x, y); ok && box.HighlightID != "" {
		m.eng.SelectHighlightByID(box.HighlightID, engine.SelectOptions{
			OpenWidget:     true,
			NotifyExternal: true,
		})
		m.status = "selected"
		m.refresh()
		return
	}
	m.eng.ClearSelection()
	if el := m.blockAt(x, y); el != nil {
		if pos, _, ok := m.lay.CaretAtPoint(el, x, y); ok {
			m.selecting = true
			m.selEl = el
			m.d.Selection().SetRange(pos, pos)
		}
	}
	m.refresh()
}

func (m *Model) mouseMove(col, row int) {
	x, y := m.docPoint(col, row)
	if m.handleDrag {
		m.eng.PointerMove(engine.ModalityMouse, x, y)
		m.refresh()
		return
	}
	if m.selecting && m.selEl != nil {
		if pos, _, ok := m.lay.CaretAtPoint(m.selEl, x, y); ok {
			m.d.Selection().ExtendTo(pos)
		}
		m.refresh()
		return
	}
	m.updateHover(x, y)
}

func (m *Model) mouseUp(col, row int) {
	x, y := m.docPoint(col, row)
	if m.handleDrag {
		m.eng.PointerUp(engine.ModalityMouse, x, y)
		m.handleDrag = false
		m.status = "ready"
		m.refresh()
		return
	}
	if m.selecting {
		m.selecting = false
		if m.d.Selection().Active() {
			m.status = "selection ready · h to highlight"
		}
		m.refresh()
	}
}

func (m *Model) updateHover(x, y int) {
	target := m.eng.Renderer().HoverTargetAt(x, y)
	if target == m.hoverEl {
		return
	}
	m.hoverEl = target
	if target != nil {
		m.eng.Renderer().ShowHover(target)
	} else {
		m.eng.Renderer().HideHover()
	}
	m.refresh()
}

// blockAt finds the nearest block-level ancestor of the element under the
// point; highlights anchor to blocks so offsets stay canonical.
func (m *Model) blockAt(x, y int) *doc.Node {
	el := m.lay.ElementAt(x, y)
	for n := el; n != nil; n = n.Parent {
		if doc.PathOf(n) != "" && doc.TotalTextLength(n) > 0 {
			switch n.Tag {
			case "p", "li", "blockquote", "pre",
				"h1", "h2", "h3", "h4", "h5", "h6":
				return n
			}
		}
	}
	return nil
}

func (m *Model) scrollToPixel(y int) {
	row := y / m.lay.Metrics.LineHeight
	m.vp.SetYOffset(row)
	m.eng.Scroll(m.vp.YOffset * m.lay.Metrics.LineHeight)
}

func (m *Model) pumpCmd() tea.Cmd {
	pending, rest := m.eng.Pending()
	if !pending {
		return nil
	}
	if rest <= 0 {
		rest = time.Millisecond
	}
	return tea.Tick(rest, func(time.Time) tea.Msg { return repaintTickMsg{} })
}

// refresh re-renders the page into the viewport.
func (m *Model) refresh() {
	recs := m.src.CurrentHighlights()
	selID, _ := m.eng.Selected()
	var pending []layout.Rect
	if s := m.d.Selection(); s.Active() && !m.handleDrag {
		start, end := s.Ordered(m.d.Root())
		pending = m.lay.RangeRects(start, end)
	}
	m.vp.SetContent(m.pv.render(recs, selID, m.hoverEl, pending))
	if m.src.consumeChanged() {
		m.status = "saved"
	}
}

// View implements tea.Model.
func (m *Model) View() (string, *tea.Cursor) {
	if m.width == 0 {
		return "loading…", nil
	}
	page := m.vp.View()
	if m.widget.open {
		g := m.lay.Metrics
		col := m.widget.x / g.CellWidth
		row := m.widget.y/g.LineHeight - m.vp.YOffset
		page = compose(page, m.width, m.vp.Height(), m.widget.View(m.width), col, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, page, m.statusLine()), nil
}

func (m *Model) statusLine() string {
	th := m.theme.Status
	left := th.Key.Render(" marker ") + th.Value.Render(filepath.Base(m.path))
	mid := th.Bar.Render(fmt.Sprintf("  %d highlight(s)", len(m.src.CurrentHighlights())))
	if m.notifier.lastSelected != "" {
		mid += th.Value.Render("  sel " + shortID(m.notifier.lastSelected))
	}
	right := th.Value.Render("  " + m.status + "  ·  tab select · h highlight · d delete · c color · q quit ")
	line := left + mid + right
	if w := lipgloss.Width(line); w < m.width {
		line += th.Bar.Render(spaces(m.width - w))
	}
	return line
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// widgetAnchor re-resolves the notes panel anchor from live overlay boxes.
func (m *Model) widgetAnchor(id string) (int, int, bool) {
	recs := m.src.CurrentHighlights()
	index := -1
	for i, rec := range recs {
		if rec.ID == id {
			index = i
			break
		}
	}
	boxes := m.eng.Renderer().BoxesFor(id, index)
	if len(boxes) == 0 {
		return 0, 0, false
	}
	return boxes[0].Rect.X, boxes[0].Rect.Bottom(), true
}

func (m *Model) recordByID(id string) *highlight.Record {
	for _, rec := range m.src.CurrentHighlights() {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
