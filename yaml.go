package slabJSON

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FromYAML converts the first document of a YAML stream into a tree built
// from the default allocator.
func FromYAML(data []byte) (*Value, error) {
	return defaultAllocator.FromYAML(data)
}

// FromYAML converts the first document of a YAML stream into a tree owned
// by a. Mapping order is kept. Scalars tagged !!int or !!float become
// numbers when their text is a JSON number and strings otherwise; keys and
// strings are stored JSON-escaped.
func (a *Allocator) FromYAML(data []byte) (*Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	if doc.Kind == 0 {
		return nil, errors.New("empty yaml document")
	}
	c := &yamlConverter{alloc: a}
	return c.convert(&doc, 0)
}

const (
	// Past aliasRatioLow converted nodes the share allowed to come from
	// alias expansion falls linearly from 99% to 10% at aliasRatioHigh.
	aliasRatioLow  = 400000
	aliasRatioHigh = 4000000
)

func allowedAliasRatio(nodes int) float64 {
	switch {
	case nodes <= aliasRatioLow:
		return 0.99
	case nodes >= aliasRatioHigh:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(nodes-aliasRatioLow)/float64(aliasRatioHigh-aliasRatioLow))
	}
}

// yamlConverter turns one yaml.Node tree into a Value tree. Aliases are
// expanded by copy, so it counts the nodes produced under an alias and
// gives up once they dominate the output.
type yamlConverter struct {
	alloc      *Allocator
	nodes      int
	aliasNodes int
	aliasDepth int
}

func (c *yamlConverter) count(node *yaml.Node) error {
	c.nodes++
	if c.aliasDepth > 0 {
		c.aliasNodes++
	}
	if c.aliasNodes > 100 && c.nodes > 1000 &&
		float64(c.aliasNodes)/float64(c.nodes) > allowedAliasRatio(c.nodes) {
		return errors.Errorf("yaml document contains excessive aliasing at line %d", node.Line)
	}
	return nil
}

func (c *yamlConverter) convert(node *yaml.Node, depth int) (*Value, error) {
	a := c.alloc
	if depth > DefaultMaxDepth {
		return nil, errors.Errorf("yaml nesting deeper than %d at line %d", DefaultMaxDepth, node.Line)
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return a.Null(), nil
		}
		return c.convert(node.Content[0], depth)

	case yaml.AliasNode:
		c.aliasDepth++
		defer func() { c.aliasDepth-- }()
		return c.convert(node.Alias, depth+1)
	}

	if err := c.count(node); err != nil {
		return nil, err
	}

	switch node.Kind {
	case yaml.SequenceNode:
		arr := a.Array()
		for _, item := range node.Content {
			v, err := c.convert(item, depth+1)
			if err != nil {
				arr.Release()
				return nil, err
			}
			arr.Push(v)
		}
		return arr, nil

	case yaml.MappingNode:
		obj := a.Object()
		for i := 0; i+1 < len(node.Content); i += 2 {
			name, err := escapeYAMLText(node.Content[i].Value)
			if err != nil {
				obj.Release()
				return nil, err
			}
			v, err := c.convert(node.Content[i+1], depth+1)
			if err != nil {
				obj.Release()
				return nil, err
			}
			obj.pushMember(name, v)
		}
		return obj, nil

	case yaml.ScalarNode:
		return a.fromYAMLScalar(node)
	case yaml.DocumentNode, yaml.AliasNode:
	}

	return nil, errors.Errorf("unsupported yaml node kind %d at line %d", node.Kind, node.Line)
}

func (a *Allocator) fromYAMLScalar(node *yaml.Node) (*Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return a.Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, errors.Wrapf(err, "decode bool at line %d", node.Line)
		}
		return a.Boolean(b), nil
	case "!!int", "!!float":
		if IsNumber(node.Value) {
			return a.Number(node.Value), nil
		}
	}

	text, err := escapeYAMLText(node.Value)
	if err != nil {
		return nil, err
	}
	v := a.newValue(String)
	v.text = text
	return v, nil
}

// escapeYAMLText returns s as the body of a JSON string literal.
func escapeYAMLText(s string) (string, error) {
	quoted, err := json.MarshalNoEscape(s)
	if err != nil {
		return "", errors.Wrapf(err, "escape %q", s)
	}
	return string(quoted[1 : len(quoted)-1]), nil
}
