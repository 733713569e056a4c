package cmd

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host"
)

// ErrEmptyDocument is returned by ParseDocument for a document without a
// root element.
var ErrEmptyDocument = errors.New("document has no root element")

// element is the YAML shape of a host element:
//
//	type: ul
//	props: {id: list}
//	children:
//	  - {type: li, children: [one]}
//	  - two
//
// Scalar children become text nodes; null and booleans leave an empty slot.
type element struct {
	Type     string         `yaml:"type"`
	Props    map[string]any `yaml:"props"`
	Children []yaml.Node    `yaml:"children"`
}

// ParseDocument decodes a YAML node tree into a descriptor.
func ParseDocument(data []byte) (*core.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmptyDocument
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: the root must be an element mapping", root.Line)
	}
	return decodeElement(root)
}

func decodeElement(n *yaml.Node) (*core.Node, error) {
	var el element
	if err := n.Decode(&el); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	el.Type = strings.TrimSpace(el.Type)
	switch {
	case el.Type == "":
		return nil, fmt.Errorf("line %d: element without a type", n.Line)
	case el.Type == host.TextElement:
		return nil, fmt.Errorf("line %d: %s is reserved, write text as a scalar child", n.Line, host.TextElement)
	}
	for key := range el.Props {
		if key == host.ChildrenProp || host.IsListener(key) {
			return nil, fmt.Errorf("line %d: prop %q cannot be set from a document", n.Line, key)
		}
	}

	children := make([]any, 0, len(el.Children))
	for i := range el.Children {
		child, err := decodeChild(&el.Children[i])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return core.CreateElement(el.Type, el.Props, children...), nil
}

// decodeChild returns a *core.Node for mappings and the scalar value
// otherwise, leaving normalization to CreateElement.
func decodeChild(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		return decodeElement(n)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	case yaml.AliasNode:
		return decodeChild(n.Alias)
	default:
		return nil, fmt.Errorf("line %d: a child must be an element or a scalar", n.Line)
	}
}
