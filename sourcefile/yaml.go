package sourcefile

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Azhovan/envflat"
	"gopkg.in/yaml.v3"
)

const yamlMergeTag = "!!merge"

// decodeYAML converts the first document of data. yaml.Node is used instead
// of map[string]any so mapping order survives.
func decodeYAML(data []byte) (envflat.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return envflat.Null{}, nil
	}

	d := &yamlDecoder{active: make(map[*yaml.Node]bool)}
	return d.value(&doc)
}

// yamlDecoder tracks the aliases being expanded so a self-referencing anchor
// is reported instead of recursing forever. It also counts decoded nodes so
// a document built from nested aliases cannot expand without bound.
type yamlDecoder struct {
	active map[*yaml.Node]bool

	decodeCount int
	aliasCount  int
}

var errExcessiveAliasing = errors.New("document contains excessive aliasing")

// allowedAliasRatio matches the limits yaml.v3 applies in its own decoder:
// small documents may be almost entirely aliases, large ones only 10%.
func allowedAliasRatio(decodeCount int) float64 {
	switch {
	case decodeCount <= 400_000:
		return 0.99
	case decodeCount >= 4_000_000:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(decodeCount-400_000)/3_600_000)
	}
}

func (d *yamlDecoder) count() error {
	d.decodeCount++
	if len(d.active) > 0 {
		d.aliasCount++
	}
	if d.aliasCount > 100 && d.decodeCount > 1000 &&
		float64(d.aliasCount)/float64(d.decodeCount) > allowedAliasRatio(d.decodeCount) {
		return errExcessiveAliasing
	}
	return nil
}

func (d *yamlDecoder) value(n *yaml.Node) (envflat.Value, error) {
	if err := d.count(); err != nil {
		return nil, err
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return envflat.Null{}, nil
		}
		return d.value(n.Content[0])
	case yaml.AliasNode:
		return d.alias(n, d.value)
	case yaml.MappingNode:
		return d.mapping(n)
	case yaml.SequenceNode:
		arr := make(envflat.Array, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := d.value(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return yamlScalar(n), nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

func (d *yamlDecoder) alias(n *yaml.Node, resolve func(*yaml.Node) (envflat.Value, error)) (envflat.Value, error) {
	if n.Alias == nil {
		return nil, fmt.Errorf("line %d: unknown anchor %q", n.Line, n.Value)
	}
	if d.active[n.Alias] {
		return nil, fmt.Errorf("line %d: anchor %q contains itself", n.Line, n.Value)
	}
	d.active[n.Alias] = true
	defer delete(d.active, n.Alias)
	return resolve(n.Alias)
}

// mapping keeps declaration order. Members pulled in by a merge key ("<<")
// sit at the merge position, and explicit keys of the same mapping win over
// them wherever they appear.
func (d *yamlDecoder) mapping(n *yaml.Node) (envflat.Value, error) {
	explicit := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k := n.Content[i]; k.ShortTag() != yamlMergeTag {
			if key, err := d.key(k); err == nil {
				explicit[key] = true
			}
		}
	}

	obj := envflat.Object{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]

		if k.ShortTag() == yamlMergeTag {
			merged, err := d.merge(v)
			if err != nil {
				return nil, err
			}
			for _, m := range merged {
				if !explicit[m.Key] {
					obj = obj.Set(m.Key, m.Value)
				}
			}
			continue
		}

		key, err := d.key(k)
		if err != nil {
			return nil, err
		}
		val, err := d.value(v)
		if err != nil {
			return nil, err
		}
		obj = obj.Set(key, val)
	}
	return obj, nil
}

// merge resolves the value of a "<<" key: one mapping, or a sequence of
// mappings where earlier entries take precedence.
func (d *yamlDecoder) merge(n *yaml.Node) (envflat.Object, error) {
	v, err := d.value(n)
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case envflat.Object:
		return v, nil
	case envflat.Array:
		var merged envflat.Object
		for _, item := range v {
			obj, ok := item.(envflat.Object)
			if !ok {
				return nil, fmt.Errorf("line %d: merge sequence must contain only mappings", n.Line)
			}
			for _, m := range obj {
				if _, exists := merged.Get(m.Key); !exists {
					merged = append(merged, m)
				}
			}
		}
		return merged, nil
	default:
		return nil, fmt.Errorf("line %d: merge value must be a mapping or a sequence of mappings", n.Line)
	}
}

func (d *yamlDecoder) key(n *yaml.Node) (string, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: mapping key must be a scalar", n.Line)
	}
	return n.Value, nil
}

func yamlScalar(n *yaml.Node) envflat.Value {
	switch n.ShortTag() {
	case "!!null":
		return envflat.Null{}
	case "!!bool":
		if b, err := strconv.ParseBool(n.Value); err == nil {
			return envflat.Bool(b)
		}
		return envflat.String(n.Value)
	case "!!int", "!!float":
		return envflat.Number(n.Value)
	default:
		return envflat.String(n.Value)
	}
}
