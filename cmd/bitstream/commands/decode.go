package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	bitstream_go "github.com/thebagchi/bitstream-go"
	"github.com/thebagchi/bitstream-go/internal/logger"
	"github.com/thebagchi/bitstream-go/internal/output"
	"github.com/thebagchi/bitstream-go/lib/bitstream"
)

type decodeOptions struct {
	hex    string
	file   string
	format string
	offset uint64
}

func newDecodeCmd(global *globalOptions) *cobra.Command {
	opts := &decodeOptions{}
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a hex dump with the configured layout",
		Long: `Decode a record from a hex dump and print one entry per field with its
bit position and width.

Fields decoded before a stream fault are still printed; the fault is
reported as the command error.

Examples:
  # Decode the captured position update
  bitstream decode --field x:quantized:20:8192:0 --field y:quantized:20:8192:0 \
    --field z:quantized:16:1024:0 --hex 6C2D765535CA16

  # Decode a dump file as JSON, starting 3 bits in
  bitstream decode --config record.yaml --file dump.hex --format json --offset 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, global, opts)
		},
	}
	cmd.Flags().StringVar(&opts.hex, "hex", "", "input as hex digits")
	cmd.Flags().StringVar(&opts.file, "file", "", "input hex dump file ('#' comments allowed)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: table, json, yaml, msgpack (default from config)")
	cmd.Flags().Uint64Var(&opts.offset, "offset", 0, "bit position to start decoding at")
	cmd.MarkFlagsMutuallyExclusive("hex", "file")
	return cmd
}

func runDecode(cmd *cobra.Command, global *globalOptions, opts *decodeOptions) error {
	cfg, err := setup(global)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if opts.format != "" {
		format = opts.format
	}
	renderer, err := output.Get(format)
	if err != nil {
		return err
	}

	var data []byte
	switch {
	case opts.hex != "":
		data, err = bitstream_go.ParseHex(opts.hex)
	case opts.file != "":
		data, err = bitstream_go.ReadHexFile(opts.file)
	default:
		return errors.New("input required: pass --hex or --file")
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	stream := bitstream.NewReader(data)
	stream.SetPos(opts.offset)
	if err := stream.Err(); err != nil {
		return fmt.Errorf("offset %d beyond %d bits of input: %w", opts.offset, stream.SizeBits(), err)
	}

	values, decodeErr := cfg.Layout.Decode(stream)
	if err := renderer.Render(cmd.OutOrStdout(), values); err != nil {
		return err
	}

	logger.Debug("decode finished",
		logger.KeyPos, stream.Pos(),
		logger.KeySize, stream.SizeBits(),
		logger.KeyFault, stream.Fault().String(),
	)
	if decodeErr != nil {
		return decodeErr
	}
	if remaining := stream.RemainingBits(); remaining >= bitstream.BITS_PER_BYTE {
		logger.Warn("trailing input not covered by the layout", "remaining_bits", remaining)
	}
	return nil
}
