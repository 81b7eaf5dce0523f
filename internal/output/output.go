// Package output renders decoded layout values for the CLI.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/thebagchi/bitstream-go/internal/layout"
)

// Renderer writes decoded values in one output format.
type Renderer interface {
	// Name returns the format identifier used by --format and the config.
	Name() string
	// Render writes values to w.
	Render(w io.Writer, values []layout.Value) error
}

var renderers = map[string]Renderer{}

// Register adds r to the registry, replacing any renderer of the same name.
func Register(r Renderer) {
	renderers[r.Name()] = r
}

// Get looks up a renderer by name, case-insensitively. An empty name selects
// the table renderer.
func Get(name string) (Renderer, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = FormatTable
	}
	r, ok := renderers[name]
	if !ok {
		return nil, fmt.Errorf("invalid output format: %q (valid: %s)", name, strings.Join(Names(), ", "))
	}
	return r, nil
}

// Names returns the registered format names in sorted order.
func Names() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	// FormatTable renders an aligned text table.
	FormatTable = "table"
	// FormatJSON renders an indented JSON array.
	FormatJSON = "json"
	// FormatYAML renders a YAML sequence.
	FormatYAML = "yaml"
	// FormatMsgPack renders MessagePack as a hex line.
	FormatMsgPack = "msgpack"
)

func init() {
	Register(Table{})
	Register(JSON{})
	Register(YAML{})
	Register(MsgPack{})
}
