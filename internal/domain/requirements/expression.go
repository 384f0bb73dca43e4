package requirements

import (
	"strings"

	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

// NodeType is the kind of node in a requirement tree
type NodeType string

const (
	NodeRequirement NodeType = "requirement"
	NodeAnd         NodeType = "and"
	NodeOr          NodeType = "or"
	NodeNot         NodeType = "not"
)

// Expression is a node of a boolean requirement tree. A nil *Expression means
// "no requirements" and always passes.
type Expression struct {
	// ID is the persisted node ID; zero for trees built in code
	ID int64

	Type        NodeType
	Children    []*Expression
	Requirement *Requirement
}

// Leaf wraps a single requirement
func Leaf(req Requirement) *Expression {
	return &Expression{Type: NodeRequirement, Requirement: &req}
}

// And passes when every child passes
func And(children ...*Expression) *Expression {
	return &Expression{Type: NodeAnd, Children: children}
}

// Or passes when at least one child passes
func Or(children ...*Expression) *Expression {
	return &Expression{Type: NodeOr, Children: children}
}

// Not negates its child
func Not(child *Expression) *Expression {
	return &Expression{Type: NodeNot, Children: []*Expression{child}}
}

// Evaluate reports whether the context satisfies the tree
func (e *Expression) Evaluate(ctx *Context) bool {
	if e == nil {
		return true
	}

	switch e.Type {
	case NodeRequirement:
		return e.Requirement != nil && e.Requirement.Evaluate(ctx)
	case NodeAnd:
		for _, child := range e.Children {
			if !child.Evaluate(ctx) {
				return false
			}
		}
		return true
	case NodeOr:
		for _, child := range e.Children {
			if child.Evaluate(ctx) {
				return true
			}
		}
		return false
	case NodeNot:
		if len(e.Children) != 1 {
			return false
		}
		return !e.Children[0].Evaluate(ctx)
	}
	return false
}

// Validate checks the structural rules of the tree: leaves carry exactly one
// requirement and no children, Not has exactly one child, And/Or at least one,
// and no node is reachable twice.
func (e *Expression) Validate() error {
	if e == nil {
		return nil
	}
	return e.validate(make(map[*Expression]bool))
}

func (e *Expression) validate(visited map[*Expression]bool) error {
	if e == nil {
		return dnderr.State("requirement tree contains a nil node")
	}
	if visited[e] {
		return dnderr.Validationf("requirement tree node %d is reachable more than once", e.ID).
			WithMeta("node_id", e.ID)
	}
	visited[e] = true

	switch e.Type {
	case NodeRequirement:
		if e.Requirement == nil {
			return dnderr.Statef("requirement node %d has no requirement", e.ID).WithMeta("node_id", e.ID)
		}
		if len(e.Children) > 0 {
			return dnderr.Statef("requirement node %d cannot have children", e.ID).WithMeta("node_id", e.ID)
		}
	case NodeNot:
		if len(e.Children) != 1 {
			return dnderr.Statef("not node %d must have exactly one child, has %d", e.ID, len(e.Children)).
				WithMeta("node_id", e.ID)
		}
	case NodeAnd, NodeOr:
		if len(e.Children) == 0 {
			return dnderr.Statef("%s node %d must have at least one child", e.Type, e.ID).
				WithMeta("node_id", e.ID)
		}
	default:
		return dnderr.Statef("unknown node type %q on node %d", e.Type, e.ID).WithMeta("node_id", e.ID)
	}

	if e.Type != NodeRequirement && e.Requirement != nil {
		return dnderr.Statef("%s node %d cannot carry a requirement", e.Type, e.ID).WithMeta("node_id", e.ID)
	}

	for _, child := range e.Children {
		if err := child.validate(visited); err != nil {
			return err
		}
	}
	return nil
}

// Describe renders the tree for display, e.g. "agility d8+ AND (Edge: alertness OR Seasoned)"
func (e *Expression) Describe() string {
	if e == nil {
		return "None"
	}
	return e.describe(true)
}

func (e *Expression) describe(top bool) string {
	switch e.Type {
	case NodeRequirement:
		if e.Requirement == nil {
			return "?"
		}
		return e.Requirement.String()
	case NodeNot:
		if len(e.Children) != 1 {
			return "NOT ?"
		}
		return "NOT " + e.Children[0].describe(false)
	case NodeAnd, NodeOr:
		parts := make([]string, 0, len(e.Children))
		for _, child := range e.Children {
			parts = append(parts, child.describe(false))
		}
		joined := strings.Join(parts, " "+strings.ToUpper(string(e.Type))+" ")
		if top || len(parts) == 1 {
			return joined
		}
		return "(" + joined + ")"
	}
	return string(e.Type)
}

// Unmet returns the leaf requirements that block the tree, for display next to
// an option the character cannot take yet. It returns nil when the tree passes.
func (e *Expression) Unmet(ctx *Context) []Requirement {
	if e.Evaluate(ctx) {
		return nil
	}
	var out []Requirement
	e.collectUnmet(ctx, &out)
	return out
}

func (e *Expression) collectUnmet(ctx *Context, out *[]Requirement) {
	switch e.Type {
	case NodeRequirement:
		if e.Requirement != nil && !e.Requirement.Evaluate(ctx) {
			*out = append(*out, *e.Requirement)
		}
	case NodeAnd, NodeOr:
		for _, child := range e.Children {
			if !child.Evaluate(ctx) {
				child.collectUnmet(ctx, out)
			}
		}
	case NodeNot:
		// A failing NOT means its child passed; report the child's leaves.
		if len(e.Children) == 1 {
			e.Children[0].collectPassing(ctx, out)
		}
	}
}

// collectPassing reports the leaves that make a passing subtree pass
func (e *Expression) collectPassing(ctx *Context, out *[]Requirement) {
	switch e.Type {
	case NodeRequirement:
		if e.Requirement != nil && e.Requirement.Evaluate(ctx) {
			*out = append(*out, *e.Requirement)
		}
	case NodeAnd, NodeOr:
		for _, child := range e.Children {
			if child.Evaluate(ctx) {
				child.collectPassing(ctx, out)
			}
		}
	case NodeNot:
		// A passing NOT means its child failed
		if len(e.Children) == 1 {
			e.Children[0].collectUnmet(ctx, out)
		}
	}
}
