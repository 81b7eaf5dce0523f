package output

import (
	"io"
	"strings"

	hex "github.com/tmthrgd/go-hex"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/thebagchi/bitstream-go/internal/layout"
)

// MsgPack renders the values as a MessagePack array, printed as one line of
// upper-case hex.
type MsgPack struct{}

// Name implements Renderer.
func (MsgPack) Name() string { return FormatMsgPack }

// Render implements Renderer.
func (MsgPack) Render(w io.Writer, values []layout.Value) error {
	data, err := msgpack.Marshal(values)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, strings.ToUpper(hex.EncodeToString(data))+"\n")
	return err
}
