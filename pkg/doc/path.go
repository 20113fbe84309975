package doc

import (
	"fmt"
	"strconv"
	"strings"
)

// Anchor paths locate an element structurally, e.g. "/body[0]/p[2]". Each
// step is a tag plus the index among the parent's element children carrying
// that tag, so engine-inserted siblings with other tags do not shift stored
// paths.

// PathOf returns the anchor path for el, or "" when el is not an element or
// not attached under a rooted tree.
func PathOf(el *Node) string {
	if el == nil || el.Kind != ElementNode {
		return ""
	}
	var steps []string
	for n := el; n != nil; n = n.Parent {
		idx := 0
		if n.Parent != nil {
			for _, sib := range n.Parent.Children {
				if sib == n {
					break
				}
				if sib.Kind == ElementNode && sib.Tag == n.Tag {
					idx++
				}
			}
		}
		steps = append(steps, fmt.Sprintf("%s[%d]", n.Tag, idx))
	}
	// steps were collected leaf-first
	var b strings.Builder
	for i := len(steps) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(steps[i])
	}
	return b.String()
}

// Resolve walks an anchor path from the document root. It returns nil when
// any step fails to match; callers treat that as a silent resolution failure.
func (d *Document) Resolve(path string) *Node {
	if path == "" {
		return nil
	}
	steps := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(steps) == 0 {
		return nil
	}
	tag, idx, ok := splitStep(steps[0])
	if !ok || tag != d.root.Tag || idx != 0 {
		return nil
	}
	cur := d.root
	for _, step := range steps[1:] {
		tag, idx, ok := splitStep(step)
		if !ok {
			return nil
		}
		cur = childAt(cur, tag, idx)
		if cur == nil {
			return nil
		}
	}
	return cur
}

func splitStep(step string) (tag string, idx int, ok bool) {
	open := strings.IndexByte(step, '[')
	if open <= 0 || !strings.HasSuffix(step, "]") {
		return "", 0, false
	}
	n, err := strconv.Atoi(step[open+1 : len(step)-1])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return step[:open], n, true
}

func childAt(parent *Node, tag string, idx int) *Node {
	seen := 0
	for _, c := range parent.Children {
		if c.Kind != ElementNode || c.Tag != tag {
			continue
		}
		if seen == idx {
			return c
		}
		seen++
	}
	return nil
}
