package requirements

import (
	"sort"
	"strings"

	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

// OwnerType is the kind of entity a requirement tree gates
type OwnerType string

const (
	OwnerEdge             OwnerType = "edge"
	OwnerPower            OwnerType = "power"
	OwnerGear             OwnerType = "gear"
	OwnerAncestry         OwnerType = "ancestry"
	OwnerArcaneBackground OwnerType = "arcane_background"
)

// Owner identifies the entity a tree is rooted on
type Owner struct {
	Type OwnerType
	ID   string
}

// NodeRecord is the persisted, parent/position-addressed shape of a tree node
type NodeRecord struct {
	ID          int64   `yaml:"id" json:"id"`
	OwnerType   string  `yaml:"owner_type" json:"owner_type"`
	OwnerID     string  `yaml:"owner_id" json:"owner_id"`
	ParentID    *int64  `yaml:"parent_id,omitempty" json:"parent_id,omitempty"`
	Position    int     `yaml:"position" json:"position"`
	NodeType    string  `yaml:"node_type" json:"node_type"`
	Requirement *Record `yaml:"requirement,omitempty" json:"requirement,omitempty"`
}

var knownNodeTypes = map[NodeType]bool{
	NodeRequirement: true,
	NodeAnd:         true,
	NodeOr:          true,
	NodeNot:         true,
}

var knownOwnerTypes = map[OwnerType]bool{
	OwnerEdge:             true,
	OwnerPower:            true,
	OwnerGear:             true,
	OwnerAncestry:         true,
	OwnerArcaneBackground: true,
}

// Build rebuilds one owned tree per owner from flat node records. Children are
// ordered by position, then ID. Unknown node types, dangling parents, more than
// one root per owner, and cycles all fail the build.
func Build(records []NodeRecord, opts DecodeOptions) (map[Owner]*Expression, error) {
	byID := make(map[int64]*NodeRecord, len(records))
	children := make(map[int64][]*NodeRecord)
	roots := make(map[Owner]*NodeRecord)

	for i := range records {
		rec := &records[i]
		if _, dup := byID[rec.ID]; dup {
			return nil, dnderr.Statef("duplicate requirement node id %d", rec.ID).WithMeta("node_id", rec.ID)
		}
		byID[rec.ID] = rec
	}

	for _, rec := range byID {
		owner, err := ownerOf(rec)
		if err != nil {
			return nil, err
		}

		if rec.ParentID == nil {
			if existing, ok := roots[owner]; ok {
				return nil, dnderr.Statef("%s %q has two root requirement nodes (%d, %d)",
					owner.Type, owner.ID, existing.ID, rec.ID).
					WithMeta("owner_id", owner.ID)
			}
			roots[owner] = rec
			continue
		}

		parent, ok := byID[*rec.ParentID]
		if !ok {
			return nil, dnderr.Statef("requirement node %d references missing parent %d", rec.ID, *rec.ParentID).
				WithMeta("node_id", rec.ID)
		}
		parentOwner, err := ownerOf(parent)
		if err != nil {
			return nil, err
		}
		if parentOwner != owner {
			return nil, dnderr.Statef("requirement node %d belongs to a different owner than its parent %d", rec.ID, parent.ID).
				WithMeta("node_id", rec.ID)
		}
		children[parent.ID] = append(children[parent.ID], rec)
	}

	for _, list := range children {
		sort.Slice(list, func(i, j int) bool {
			if list[i].Position != list[j].Position {
				return list[i].Position < list[j].Position
			}
			return list[i].ID < list[j].ID
		})
	}

	b := &builder{children: children, visited: make(map[int64]bool), opts: opts}
	trees := make(map[Owner]*Expression, len(roots))
	for owner, root := range roots {
		expr, err := b.build(root)
		if err != nil {
			return nil, dnderr.Wrapf(err, "build requirements for %s %q", owner.Type, owner.ID).
				WithMeta("owner_id", owner.ID)
		}
		trees[owner] = expr
	}

	// Every node has a resolvable parent, so anything not reached from a root
	// sits on a cycle.
	if len(b.visited) != len(byID) {
		for id := range byID {
			if !b.visited[id] {
				return nil, dnderr.Validationf("requirement node %d is part of a cycle", id).WithMeta("node_id", id)
			}
		}
	}

	return trees, nil
}

func ownerOf(rec *NodeRecord) (Owner, error) {
	ownerType := OwnerType(strings.ToLower(strings.TrimSpace(rec.OwnerType)))
	if !knownOwnerTypes[ownerType] {
		return Owner{}, dnderr.Statef("requirement node %d has unknown owner type %q", rec.ID, rec.OwnerType).
			WithMeta("node_id", rec.ID)
	}
	if rec.OwnerID == "" {
		return Owner{}, dnderr.Statef("requirement node %d has no owner id", rec.ID).WithMeta("node_id", rec.ID)
	}
	return Owner{Type: ownerType, ID: rec.OwnerID}, nil
}

type builder struct {
	children map[int64][]*NodeRecord
	visited  map[int64]bool
	opts     DecodeOptions
}

func (b *builder) build(rec *NodeRecord) (*Expression, error) {
	if b.visited[rec.ID] {
		return nil, dnderr.Validationf("requirement node %d is part of a cycle", rec.ID).WithMeta("node_id", rec.ID)
	}
	b.visited[rec.ID] = true

	nodeType := NodeType(strings.ToLower(strings.TrimSpace(rec.NodeType)))
	if !knownNodeTypes[nodeType] {
		return nil, dnderr.Statef("requirement node %d has unknown node type %q", rec.ID, rec.NodeType).
			WithMeta("node_id", rec.ID)
	}

	expr := &Expression{ID: rec.ID, Type: nodeType}

	if nodeType == NodeRequirement {
		if rec.Requirement == nil {
			return nil, dnderr.Statef("requirement node %d has no requirement", rec.ID).WithMeta("node_id", rec.ID)
		}
		req, err := Decode(*rec.Requirement, b.opts)
		if err != nil {
			return nil, err
		}
		expr.Requirement = &req
	}

	for _, child := range b.children[rec.ID] {
		childExpr, err := b.build(child)
		if err != nil {
			return nil, err
		}
		expr.Children = append(expr.Children, childExpr)
	}

	if err := expr.validateShape(); err != nil {
		return nil, err
	}
	return expr, nil
}

// validateShape checks only this node's own arity, children were checked as they were built
func (e *Expression) validateShape() error {
	switch e.Type {
	case NodeRequirement:
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
	}
	return nil
}
