package engine

import (
	"encoding/json"
	"fmt"
	"image"
)

// Blueprint is the portable, JSON-compatible serialization of a slicing
// tree described in spec.md §3 and §6. Only internal nodes are listed;
// leaves are reconstructed from the caller-supplied image slice.
type Blueprint struct {
	Width  uint32          `json:"width"`
	Height uint32          `json:"height"`
	Graph  []blueprintNode `json:"graph_representation"`
}

// blueprintNode is one entry of graph_representation: a direction code
// and the emitted-list positions of this node's internal children, in
// left-to-right order. It marshals as a 2-element JSON array, e.g.
// ["V", [1, 3]], rather than as an object.
type blueprintNode struct {
	Direction SliceDirection
	Children  []int
}

func (n blueprintNode) MarshalJSON() ([]byte, error) {
	code := "V"
	if n.Direction == Horizontal {
		code = "H"
	}
	children := n.Children
	if children == nil {
		children = []int{}
	}
	return json.Marshal([2]any{code, children})
}

func (n *blueprintNode) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("engine: malformed blueprint node: %w", err)
	}

	var code string
	if err := json.Unmarshal(tuple[0], &code); err != nil {
		return fmt.Errorf("engine: malformed blueprint direction code: %w", err)
	}
	switch code {
	case "V":
		n.Direction = Vertical
	case "H":
		n.Direction = Horizontal
	default:
		return fmt.Errorf("engine: unknown direction code %q", code)
	}

	var children []int
	if err := json.Unmarshal(tuple[1], &children); err != nil {
		return fmt.Errorf("engine: malformed blueprint children: %w", err)
	}
	n.Children = children
	return nil
}

// ToBlueprint serializes l by walking its internal nodes breadth-first
// from the root, per spec.md §4.2.
func ToBlueprint(l *Layout) Blueprint {
	order := make([]int, 0, l.InternalCount())
	position := make(map[int]int, l.InternalCount())

	queue := []int{l.root}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		position[idx] = len(order)
		order = append(order, idx)

		left, right := l.nodes[idx].left, l.nodes[idx].right
		if l.nodes[left].kind == internalKind {
			queue = append(queue, left)
		}
		if l.nodes[right].kind == internalKind {
			queue = append(queue, right)
		}
	}

	graph := make([]blueprintNode, len(order))
	for i, idx := range order {
		n := l.nodes[idx]
		var children []int
		if l.nodes[n.left].kind == internalKind {
			children = append(children, position[n.left])
		}
		if l.nodes[n.right].kind == internalKind {
			children = append(children, position[n.right])
		}
		graph[i] = blueprintNode{Direction: n.direction, Children: children}
	}

	return Blueprint{Width: l.Canvas.Width, Height: l.Canvas.Height, Graph: graph}
}

// FromBlueprint reconstructs a layout: internal nodes are created in
// list order with their declared directions and internal children; the
// remaining child slots are then filled with images, in input order, by
// visiting internal nodes with fewer than two children in creation
// order (spec.md §4.2). It is an invalid-input-shape error (spec.md §7)
// if the image count doesn't exactly match the number of empty slots.
func FromBlueprint(bp Blueprint, images []image.Image) (*Layout, error) {
	if len(bp.Graph) == 0 {
		return nil, fmt.Errorf("engine: blueprint has no internal nodes")
	}

	nodes := make([]node, len(bp.Graph))
	for i, bn := range bp.Graph {
		if bn.Direction != Vertical && bn.Direction != Horizontal {
			return nil, fmt.Errorf("engine: blueprint node %d has unknown direction", i)
		}
		nodes[i] = node{kind: internalKind, direction: bn.Direction, parent: -1, left: -1, right: -1}
	}

	for i, bn := range bp.Graph {
		for _, childPos := range bn.Children {
			if childPos < 0 || childPos >= len(nodes) {
				return nil, fmt.Errorf("engine: blueprint node %d references out-of-range child %d", i, childPos)
			}
			parent := &nodes[i]
			switch parent.childCount() {
			case 0:
				parent.left = childPos
			case 1:
				parent.right = childPos
			default:
				return nil, fmt.Errorf("engine: blueprint node %d lists more than two children", i)
			}
			nodes[childPos].parent = i
		}
	}

	l := &Layout{nodes: nodes, root: 0, Canvas: Dimensions{Width: bp.Width, Height: bp.Height}}

	imageIdx := 0
	for i := range l.nodes {
		if l.nodes[i].kind != internalKind {
			continue
		}
		for l.nodes[i].childCount() < 2 {
			if imageIdx >= len(images) {
				return nil, fmt.Errorf("engine: blueprint needs more images than the %d supplied", len(images))
			}
			l.addChild(i, node{kind: leafKind, image: images[imageIdx], left: -1, right: -1})
			imageIdx++
		}
	}
	if imageIdx != len(images) {
		return nil, fmt.Errorf("engine: blueprint leaf capacity (%d) does not match image count (%d)", imageIdx, len(images))
	}

	l.assertInvariants()
	return l, nil
}
