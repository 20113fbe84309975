package doc

// Selection is the document's single native selection: an anchor and a
// focus position. The drag controller owns it exclusively while a resize
// session is active.
type Selection struct {
	anchor Position
	focus  Position
	active bool
}

// Selection returns the document's selection object.
func (d *Document) Selection() *Selection { return &d.sel }

// Active reports whether a selection is set.
func (s *Selection) Active() bool { return s.active }

// Anchor returns the fixed end of the selection.
func (s *Selection) Anchor() Position { return s.anchor }

// Focus returns the moving end of the selection.
func (s *Selection) Focus() Position { return s.focus }

// SetRange replaces the selection with an anchor/focus pair.
func (s *Selection) SetRange(anchor, focus Position) {
	s.anchor = anchor
	s.focus = focus
	s.active = anchor.Valid() && focus.Valid()
}

// ExtendTo moves the focus, keeping the anchor fixed.
func (s *Selection) ExtendTo(focus Position) {
	if !focus.Valid() {
		return
	}
	s.focus = focus
	s.active = s.anchor.Valid()
}

// Collapse clears the selection.
func (s *Selection) Collapse() {
	s.anchor = Position{}
	s.focus = Position{}
	s.active = false
}

// Ordered returns the selection bounds in document order under root.
func (s *Selection) Ordered(root *Node) (start, end Position) {
	if ComparePositions(root, s.anchor, s.focus) <= 0 {
		return s.anchor, s.focus
	}
	return s.focus, s.anchor
}

// Text extracts the selected text in document order under root.
func (s *Selection) Text(root *Node) string {
	if !s.active {
		return ""
	}
	return TextBetween(root, s.anchor, s.focus)
}
