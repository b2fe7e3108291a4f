package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodemap/pkg/io"
)

// exportCommand converts a definition file to JSON, the format accepted by
// the HTTP API.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Convert a diagram definition to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := io.Import(args[0])
			if err != nil {
				return err
			}
			if err := def.Validate(); err != nil {
				return err
			}
			if output == "" || output == "-" {
				data, err := io.MarshalJSON(def)
				if err != nil {
					return err
				}
				return writeArtifact("-", append(data, '\n'))
			}
			if err := io.ExportJSON(def, output); err != nil {
				return err
			}
			printSuccess("Exported %d nodes and %d edges", len(def.Nodes), len(def.Edges))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
