package cmd

import (
	"github.com/spf13/cobra"

	"github.com/campuswatch/campuswatch/pkg/cwctl/output"
)

func NewCollegeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "college",
		Aliases: []string{"colleges"},
		Short:   "Browse college safety statistics",
	}
	cmd.AddCommand(
		newCollegeListCommand(),
		newCollegeSummaryCommand(),
		newCollegeLocationsCommand(),
	)
	return cmd
}

func newCollegeListCommand() *cobra.Command {
	var (
		search   string
		location string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List colleges with their safety scores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			c, err := buildClient(cmd.Context(), rt)
			if err != nil {
				return err
			}
			colleges, err := c.Colleges().List(cmd.Context(), search, location)
			if err != nil {
				return err
			}
			if rt.OutputFormat() == output.FormatTable {
				output.WriteCollegeTable(rt.Writer(), colleges)
				return nil
			}
			return output.WriteObject(rt.Writer(), rt.OutputFormat(), colleges)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Filter by college name")
	cmd.Flags().StringVar(&location, "location", "", "Filter by location")
	return cmd
}

func newCollegeSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the aggregate safety dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			c, err := buildClient(cmd.Context(), rt)
			if err != nil {
				return err
			}
			summary, err := c.Colleges().Summary(cmd.Context())
			if err != nil {
				return err
			}
			if rt.OutputFormat() == output.FormatTable {
				output.WriteSummary(rt.Writer(), summary)
				return nil
			}
			return output.WriteObject(rt.Writer(), rt.OutputFormat(), summary)
		},
	}
}

func newCollegeLocationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List known college locations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			c, err := buildClient(cmd.Context(), rt)
			if err != nil {
				return err
			}
			locations, err := c.Colleges().Locations(cmd.Context())
			if err != nil {
				return err
			}
			if rt.OutputFormat() == output.FormatTable {
				output.WriteList(rt.Writer(), locations)
				return nil
			}
			return output.WriteObject(rt.Writer(), rt.OutputFormat(), locations)
		},
	}
}
