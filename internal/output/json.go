package output

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/thebagchi/bitstream-go/internal/layout"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSON renders the values as an indented JSON array.
type JSON struct{}

// Name implements Renderer.
func (JSON) Name() string { return FormatJSON }

// Render implements Renderer.
func (JSON) Render(w io.Writer, values []layout.Value) error {
	if values == nil {
		values = []layout.Value{}
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
