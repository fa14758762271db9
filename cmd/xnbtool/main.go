// The xnbtool command unpacks XNB assets into editable JSON documents with
// media sidecars, and packs them back.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	xnbfile "github.com/Odex64/xnb-utils"
	"github.com/Odex64/xnb-utils/xnb"
)

var log = hclog.New(&hclog.LoggerOptions{
	Name:  "xnbtool",
	Level: hclog.Info,
})

func main() {
	root := &cobra.Command{
		Use:           "xnbtool",
		Short:         "Convert XNB assets to and from editable documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(hclog.Debug)
		}
	}

	root.AddCommand(unpackCmd(), packCmd(), dumpCmd())

	if err := root.Execute(); err != nil {
		log.Error("failed", "error", err)
		os.Exit(1)
	}
}

// logWarnings reports non-fatal decoder findings.
func logWarnings(warn error) {
	if warn != nil {
		log.Warn("while converting", "warning", warn)
	}
}

func unpackCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "unpack FILE.xnb",
		Short: "Decode an XNB file into a JSON document plus media sidecars",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			doc, warn, err := xnb.Decoder{}.Decode(bytes.NewReader(data))
			logWarnings(warn)
			if err != nil {
				return err
			}

			base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			dir := outDir
			if dir == "" {
				dir = filepath.Dir(args[0])
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			emit := func(name string, blob []byte) (string, error) {
				log.Debug("writing sidecar", "name", name, "bytes", len(blob))
				return name, os.WriteFile(filepath.Join(dir, name), blob, 0o644)
			}
			out, err := doc.MarshalSidecar(base, emit)
			if err != nil {
				return err
			}

			target := filepath.Join(dir, base+".json")
			log.Info("unpacked", "input", args[0], "output", target)
			return os.WriteFile(target, out, 0o644)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: alongside the input)")
	return cmd
}

func packCmd() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "pack FILE.json",
		Short: "Encode a JSON document plus sidecars into an XNB file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			dir := filepath.Dir(args[0])
			load := func(name string) ([]byte, error) {
				log.Debug("reading sidecar", "name", name)
				return os.ReadFile(filepath.Join(dir, name))
			}
			doc, err := xnbfile.UnmarshalSidecar(data, load)
			if err != nil {
				return err
			}

			target := outFile
			if target == "" {
				target = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".xnb"
			}
			f, err := os.Create(target)
			if err != nil {
				return err
			}
			defer f.Close()

			warn, err := xnb.Encoder{}.Encode(f, doc)
			logWarnings(warn)
			if err != nil {
				return err
			}
			log.Info("packed", "input", args[0], "output", target)
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: input with .xnb extension)")
	return cmd
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE.xnb",
		Short: "Print a readable summary of an XNB file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			warn, err := xnb.Decoder{}.Dump(os.Stdout, bytes.NewReader(data))
			logWarnings(warn)
			return err
		},
	}
}
