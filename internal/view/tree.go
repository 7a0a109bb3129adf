package view

// Layout is the split orientation of a container node, named by the
// divider it introduces: a Vertical split puts children side by side
// (vertical divider), a Horizontal split stacks them.
type Layout int

const (
	LayoutHorizontal Layout = iota
	LayoutVertical
)

type nodeKind int

const (
	nodeView nodeKind = iota
	nodeContainer
)

type node struct {
	kind     nodeKind
	parent   ID
	view     *View  // set when kind == nodeView
	layout   Layout // set when kind == nodeContainer
	children []ID
	area     Rect
}

// Tree is an n-ary arena of containers with View leaves, exactly one of
// which is Focus.
type Tree struct {
	nodes map[ID]*node
	root  ID
	focus ID
	next  ID
	area  Rect
}

// NewTree creates a tree with a single view filling area.
func NewTree(v *View, area Rect) *Tree {
	t := &Tree{nodes: map[ID]*node{}, area: area}
	t.root = t.alloc(&node{kind: nodeView, view: v, area: area})
	t.focus = t.root
	v.ID = t.root
	v.Area = area
	return t
}

func (t *Tree) alloc(n *node) ID {
	id := t.next
	t.next++
	t.nodes[id] = n
	return id
}

// Focus returns the currently focused view.
func (t *Tree) Focus() *View { return t.nodes[t.focus].view }

// FocusID returns the ID of the focused view.
func (t *Tree) FocusID() ID { return t.focus }

// SetFocus changes the focused view.
func (t *Tree) SetFocus(id ID) {
	if n, ok := t.nodes[id]; ok && n.kind == nodeView {
		t.focus = id
	}
}

// Views returns every view leaf in the tree, in traversal order.
func (t *Tree) Views() []*View {
	var out []*View
	var walk func(id ID)
	walk = func(id ID) {
		n := t.nodes[id]
		if n.kind == nodeView {
			out = append(out, n.view)
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	return out
}

// Split replaces the focused view's node with a container of the given
// layout holding the old view and newView, focuses newView, then
// recomputes areas top-down from the root area.
func (t *Tree) Split(newView *View, layout Layout) {
	oldID := t.focus
	old := t.nodes[oldID]

	containerID := t.alloc(&node{kind: nodeContainer, parent: old.parent, layout: layout})
	container := t.nodes[containerID]

	newID := t.alloc(&node{kind: nodeView, parent: containerID, view: newView})
	newView.ID = newID

	old.parent = containerID
	container.children = []ID{oldID, newID}

	if oldID == t.root {
		t.root = containerID
	} else {
		parent := t.nodes[container.parent]
		for i, c := range parent.children {
			if c == oldID {
				parent.children[i] = containerID
			}
		}
	}

	t.focus = newID
	t.Resize(t.area)
}

// Remove deletes a view leaf. If its parent container is left with one
// child, the container collapses and that child takes its place.
func (t *Tree) Remove(id ID) {
	n, ok := t.nodes[id]
	if !ok || n.kind != nodeView {
		return
	}
	if id == t.root {
		return // the last view cannot be closed, only quit
	}
	parentID := n.parent
	parent := t.nodes[parentID]
	var remaining []ID
	for _, c := range parent.children {
		if c != id {
			remaining = append(remaining, c)
		}
	}
	delete(t.nodes, id)

	if len(remaining) == 1 {
		survivor := remaining[0]
		sNode := t.nodes[survivor]
		sNode.parent = parent.parent

		if t.root == parentID {
			t.root = survivor
		} else {
			grand := t.nodes[parent.parent]
			for i, c := range grand.children {
				if c == parentID {
					grand.children[i] = survivor
				}
			}
		}
		delete(t.nodes, parentID)
		if t.focus == id {
			t.focus = t.firstView(survivor)
		}
	} else {
		parent.children = remaining
		if t.focus == id {
			t.focus = t.firstView(remaining[0])
		}
	}
	t.Resize(t.area)
}

func (t *Tree) firstView(id ID) ID {
	n := t.nodes[id]
	if n.kind == nodeView {
		return id
	}
	return t.firstView(n.children[0])
}

// Resize recomputes every node's area top-down from a new root area.
func (t *Tree) Resize(area Rect) {
	t.area = area
	t.layout(t.root, area)
}

func (t *Tree) layout(id ID, area Rect) {
	n := t.nodes[id]
	n.area = area
	if n.kind == nodeView {
		n.view.Area = area
		return
	}
	count := len(n.children)
	if count == 0 {
		return
	}
	if n.layout == LayoutVertical {
		w := area.W / count
		x := area.X
		for i, c := range n.children {
			cw := w
			if i == count-1 {
				cw = area.X + area.W - x
			}
			t.layout(c, Rect{X: x, Y: area.Y, W: cw, H: area.H})
			x += cw
		}
	} else {
		h := area.H / count
		y := area.Y
		for i, c := range n.children {
			ch := h
			if i == count-1 {
				ch = area.Y + area.H - y
			}
			t.layout(c, Rect{X: area.X, Y: y, W: area.W, H: ch})
			y += ch
		}
	}
}

// RenderWith composes per-view renderings into the full split layout.
// The join functions come from the caller so this package stays free
// of any rendering dependency.
func (t *Tree) RenderWith(render func(*View) string, joinSideBySide, joinStacked func(parts ...string) string) string {
	var walk func(id ID) string
	walk = func(id ID) string {
		n := t.nodes[id]
		if n.kind == nodeView {
			return render(n.view)
		}
		parts := make([]string, len(n.children))
		for i, c := range n.children {
			parts[i] = walk(c)
		}
		if n.layout == LayoutVertical {
			return joinSideBySide(parts...)
		}
		return joinStacked(parts...)
	}
	return walk(t.root)
}
