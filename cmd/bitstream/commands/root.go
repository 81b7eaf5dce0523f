// Package commands implements the bitstream command line.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	cfgFile string
	fields  []string
	trace   bool
}

// Execute builds the command tree and runs it against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd returns a fresh command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "bitstream",
		Short: "Decode and encode bit-packed records",
		Long: `bitstream reads and writes records packed at bit granularity: single
bits, little-endian integers of any width, quantized floats and
length-prefixed strings.

A record is described by a layout, either in the config file under
layout.fields or with repeated --field flags using the shorthand
name:kind[:params], for example:

  flag:bit  id:uint:12  raw:bytes:4  x:quantized:20:8192:0
  name:string  title:wstring  :align  :skip:5

Use "bitstream [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (YAML)")
	root.PersistentFlags().StringArrayVar(&opts.fields, "field", nil, "layout field shorthand, repeatable (overrides layout.fields)")
	root.PersistentFlags().BoolVar(&opts.trace, "trace", false, "log every bit engine call at DEBUG")

	root.AddCommand(newDecodeCmd(opts))
	root.AddCommand(newEncodeCmd(opts))
	root.AddCommand(newVersionCmd())

	root.CompletionOptions.DisableDefaultCmd = true
	return root
}
