package coverage

import (
	"errors"
	"fmt"
)

// containerName names the synthetic root created when merging modules that
// do not share a name.
const containerName = "-"

// Merge combines two trees describing the same logical module into a new
// tree whose aggregates represent the union of both observations. Children
// are matched by metric and name. On line conflicts a covered line wins.
// Neither input is modified.
func Merge(a, b *Node) (*Node, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: cannot merge a nil tree", ErrInvalidTreeStructure)
	}

	switch {
	case a.metric == b.metric && a.name == b.name:
		result := a.Copy()
		if err := result.mergeFrom(b); err != nil {
			return nil, err
		}
		return result, nil

	case a.metric == Module && b.metric == Module:
		root := NewContainerNode(containerName)
		if err := root.AddChild(a.Copy()); err != nil {
			return nil, err
		}
		if err := root.AddChild(b.Copy()); err != nil {
			return nil, err
		}
		return root, nil

	case a.metric == Container && b.metric == Module:
		result := a.Copy()
		if err := result.mergeChild(b); err != nil {
			return nil, err
		}
		return result, nil

	case a.metric == Module && b.metric == Container:
		result := NewContainerNode(b.name)
		if err := result.mergeChild(a); err != nil {
			return nil, err
		}
		if err := result.mergeFrom(b); err != nil {
			return nil, err
		}
		return result, nil

	default:
		return nil, fmt.Errorf("%w: cannot merge %s '%s' with %s '%s'", ErrInvalidTreeStructure, a.metric, a.name, b.metric, b.name)
	}
}

// MergeAll folds Merge over all trees from left to right.
func MergeAll(trees ...*Node) (*Node, error) {
	if len(trees) == 0 {
		return nil, errors.New("no trees to merge")
	}
	result := trees[0].Copy()
	for _, t := range trees[1:] {
		merged, err := Merge(result, t)
		if err != nil {
			return nil, err
		}
		result = merged
	}
	return result, nil
}

// mergeFrom folds other into n. n must be exclusively owned by the caller;
// other is only read.
func (n *Node) mergeFrom(other *Node) error {
	for _, v := range other.values {
		addValue(n.values, v)
	}

	if n.metric == File {
		for line, covered := range other.lines {
			n.lines[line] = n.lines[line] || covered
		}
		for line, b := range other.branches {
			n.branches[line] = n.branches[line].union(b)
		}
		if n.path == "" && other.path != "" {
			n.path = other.path
			if p := n.parent; p != nil {
				if p.byPath == nil {
					p.byPath = make(map[string]*Node)
				}
				if _, seen := p.byPath[n.path]; !seen {
					p.byPath[n.path] = n
				}
			}
		}
	}
	if n.metric == Method && !n.HasValidLineNumber() && other.HasValidLineNumber() {
		n.lineNumber = other.lineNumber
	}
	n.testCases = append(n.testCases, other.testCases...)

	for _, oc := range other.children {
		if err := n.mergeChild(oc); err != nil {
			return err
		}
	}
	n.invalidate()
	return nil
}

// mergeChild merges other into the matching child of n, or adopts a copy
// of it when there is no match. File children with a path match by path,
// since their names depend on the order siblings were added.
func (n *Node) mergeChild(other *Node) error {
	if other.metric == File && other.path != "" {
		if existing, ok := n.findFileChild(other.path); ok {
			return existing.mergeFrom(other)
		}
		adopted := other.Copy()
		adopted.name = n.fileName(other.path)
		return n.AddChild(adopted)
	}
	if existing, ok := n.Find(other.metric, other.name); ok {
		return existing.mergeFrom(other)
	}
	return n.AddChild(other.Copy())
}
