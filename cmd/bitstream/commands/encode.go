package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	hex "github.com/tmthrgd/go-hex"

	"github.com/thebagchi/bitstream-go/lib/bitstream"
)

type encodeOptions struct {
	values []string
}

func newEncodeCmd(global *globalOptions) *cobra.Command {
	opts := &encodeOptions{}
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode field values with the configured layout",
		Long: `Encode one record and print the packed bytes as upper-case hex.

Every named field of the layout needs a value. Bits take true/false,
uints take decimal or 0x hex, bytes take hex digits, quantized fields
take a float, strings are taken verbatim.

Examples:
  bitstream encode --field flag:bit --field id:uint:12 --field name:string \
    --set flag=true --set id=0x5A --set name=hello`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, global, opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.values, "set", nil, "field value as name=value, repeatable")
	return cmd
}

func runEncode(cmd *cobra.Command, global *globalOptions, opts *encodeOptions) error {
	cfg, err := setup(global)
	if err != nil {
		return err
	}

	values, err := parseAssignments(opts.values)
	if err != nil {
		return err
	}

	stream := bitstream.NewWriter()
	if err := cfg.Layout.Encode(stream, values); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.ToUpper(hex.EncodeToString(stream.Bytes())))
	return err
}

// parseAssignments splits name=value pairs. Only the first '=' separates, so
// values may contain '='.
func parseAssignments(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: expected name=value", pair)
		}
		if _, dup := values[name]; dup {
			return nil, fmt.Errorf("duplicate --set for %q", name)
		}
		values[name] = value
	}
	return values, nil
}
