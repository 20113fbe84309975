// Package doc provides the in-memory element/text tree the highlight engine
// anchors against: structural paths, text walking, mutation observation, and
// the document-owned native selection.
package doc

// NodeKind discriminates element nodes from text nodes.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
)

// Node is a single tree node. Element nodes carry a tag and attributes, text
// nodes carry content. Offsets into text content are rune offsets.
type Node struct {
	Kind     NodeKind
	Tag      string
	Text     string
	Attrs    map[string]string
	Parent   *Node
	Children []*Node
}

// NewElement builds an element node. Extra arguments are attribute
// name/value pairs; a trailing unpaired name is ignored.
func NewElement(tag string, attrs ...string) *Node {
	n := &Node{Kind: ElementNode, Tag: tag}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.setAttr(attrs[i], attrs[i+1])
	}
	return n
}

// NewText builds a text node.
func NewText(text string) *Node {
	return &Node{Kind: TextNode, Text: text}
}

// Attr returns the named attribute or "".
func (n *Node) Attr(name string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

func (n *Node) setAttr(name, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string, 2)
	}
	n.Attrs[name] = value
}

// Root walks to the top of the tree containing n.
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for m := other; m != nil; m = m.Parent {
		if m == n {
			return true
		}
	}
	return false
}

// MutationKind classifies a document mutation.
type MutationKind int

const (
	// ChildList covers node insertions and removals.
	ChildList MutationKind = iota
	// Attribute covers attribute and text content changes.
	Attribute
)

// Mutation describes a single document change delivered to observers.
type Mutation struct {
	Kind    MutationKind
	Target  *Node
	Added   []*Node
	Removed []*Node
	Attr    string
}

// Document owns a node tree, its selection, and mutation observers. All
// methods are meant to be called from a single goroutine; the engine's
// event-driven model never touches a Document concurrently.
type Document struct {
	root      *Node
	sel       Selection
	observers []func(Mutation)
	revision  uint64
}

// New wraps root in a Document. A nil root gets an empty body element.
func New(root *Node) *Document {
	if root == nil {
		root = NewElement("body")
	}
	return &Document{root: root}
}

// Root returns the document root element.
func (d *Document) Root() *Node { return d.root }

// Revision increments on every mutation; cheap staleness check for layouts.
func (d *Document) Revision() uint64 { return d.revision }

// Observe registers a mutation observer. Observers run synchronously in
// mutation order.
func (d *Document) Observe(fn func(Mutation)) {
	d.observers = append(d.observers, fn)
}

func (d *Document) notify(m Mutation) {
	d.revision++
	for _, fn := range d.observers {
		fn(m)
	}
}

// AppendChild attaches child as the last child of parent.
func (d *Document) AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	child.Parent = parent
	parent.Children = append(parent.Children, child)
	d.notify(Mutation{Kind: ChildList, Target: parent, Added: []*Node{child}})
}

// InsertBefore attaches child before ref among parent's children. A nil or
// missing ref appends.
func (d *Document) InsertBefore(parent, child, ref *Node) {
	if parent == nil || child == nil {
		return
	}
	idx := len(parent.Children)
	for i, c := range parent.Children {
		if c == ref {
			idx = i
			break
		}
	}
	child.Parent = parent
	parent.Children = append(parent.Children, nil)
	copy(parent.Children[idx+1:], parent.Children[idx:])
	parent.Children[idx] = child
	d.notify(Mutation{Kind: ChildList, Target: parent, Added: []*Node{child}})
}

// RemoveChild detaches child from parent. Unknown children are ignored.
func (d *Document) RemoveChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	for i, c := range parent.Children {
		if c == child {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			child.Parent = nil
			d.notify(Mutation{Kind: ChildList, Target: parent, Removed: []*Node{child}})
			return
		}
	}
}

// SetAttr sets an attribute on n and notifies observers.
func (d *Document) SetAttr(n *Node, name, value string) {
	if n == nil {
		return
	}
	n.setAttr(name, value)
	d.notify(Mutation{Kind: Attribute, Target: n, Attr: name})
}

// RemoveAttr deletes an attribute from n and notifies observers.
func (d *Document) RemoveAttr(n *Node, name string) {
	if n == nil || n.Attrs == nil {
		return
	}
	delete(n.Attrs, name)
	d.notify(Mutation{Kind: Attribute, Target: n, Attr: name})
}

// SetText replaces the content of a text node and notifies observers.
func (d *Document) SetText(n *Node, text string) {
	if n == nil || n.Kind != TextNode {
		return
	}
	n.Text = text
	d.notify(Mutation{Kind: Attribute, Target: n, Attr: "text"})
}

// Contains reports whether n is attached to this document.
func (d *Document) Contains(n *Node) bool {
	return n != nil && n.Root() == d.root
}
