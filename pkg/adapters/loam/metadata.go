package loam

// NodeMetadata is the front matter of one scene node document.
// Values, dynamic attributes and connections are decoded by pkg/scene so
// that documents accept the same short forms as scene files.
type NodeMetadata struct {
	// Path defaults to the document ID without its extension.
	Path string `json:"path" mapstructure:"path"`
	Type string `json:"type" mapstructure:"type"`
	// Order positions the node before evaluation; ties are broken by path.
	Order int `json:"order" mapstructure:"order"`

	Values      map[string]any `json:"values" mapstructure:"values"`
	Dynamic     []any          `json:"dynamic" mapstructure:"dynamic"`
	Connections []any          `json:"connections" mapstructure:"connections"`
}
