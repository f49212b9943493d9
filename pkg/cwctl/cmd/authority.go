package cmd

import (
	"github.com/spf13/cobra"

	"github.com/campuswatch/campuswatch/pkg/cwctl/output"
)

func NewAuthorityCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "authority",
		Aliases: []string{"authorities"},
		Short:   "Show escalation authorities",
	}
	cmd.AddCommand(newAuthorityListCommand())
	return cmd
}

func newAuthorityListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the escalation authorities in order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			c, err := buildClient(cmd.Context(), rt)
			if err != nil {
				return err
			}
			authorities, err := c.Authorities(cmd.Context())
			if err != nil {
				return err
			}
			if rt.OutputFormat() == output.FormatTable {
				output.WriteList(rt.Writer(), authorities)
				return nil
			}
			return output.WriteObject(rt.Writer(), rt.OutputFormat(), authorities)
		},
	}
}
