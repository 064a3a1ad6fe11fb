package codec

import "gopkg.in/yaml.v3"

// YAML is a codec backed by gopkg.in/yaml.v3.
//
// Unquoted timestamps decode as their literal text, as they would from
// JSON. Date labels are parsed by the document schema.
type YAML struct{}

// Marshal encodes the value to YAML.
func (YAML) Marshal(v any) ([]byte, error) { return yaml.Marshal(v) }

// Unmarshal decodes the YAML data into v.
func (YAML) Unmarshal(data []byte, v any) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return err
	}
	if root.Kind == 0 {
		return nil
	}
	literalTimestamps(&root)
	return root.Decode(v)
}

// Name returns the unique name of the codec ("yaml").
func (YAML) Name() string { return "yaml" }

func literalTimestamps(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!timestamp" {
		n.Tag = "!!str"
		n.Style |= yaml.DoubleQuotedStyle
		return
	}
	for _, c := range n.Content {
		literalTimestamps(c)
	}
}
