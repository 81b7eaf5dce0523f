package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/thebagchi/bitstream-go/internal/layout"
)

// YAML renders the values as a YAML sequence.
type YAML struct{}

// Name implements Renderer.
func (YAML) Name() string { return FormatYAML }

// Render implements Renderer.
func (YAML) Render(w io.Writer, values []layout.Value) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer func() { _ = encoder.Close() }()
	return encoder.Encode(values)
}
