package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"MiniCatalog/pkg/kit"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the whole catalog as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			write, err := writerFor(format)
			if err != nil {
				return err
			}

			products, err := a.store.List(cmd.Context())
			if err != nil {
				return err
			}

			if out == "" {
				return write(cmd.OutOrStdout(), products)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := write(f, products); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVar(&format, "format", formatJSON, "output format: json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func writerFor(format string) (func(io.Writer, any) error, error) {
	switch format {
	case formatJSON:
		return kit.WriteJSON, nil
	case formatYAML:
		return kit.WriteYAML, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
