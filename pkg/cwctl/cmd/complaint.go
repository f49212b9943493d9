package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campuswatch/campuswatch/pkg/cwctl/client"
	"github.com/campuswatch/campuswatch/pkg/cwctl/output"
)

func NewComplaintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "complaint",
		Aliases: []string{"complaints", "report"},
		Short:   "Submit and list incident complaints",
	}
	cmd.AddCommand(
		newComplaintSubmitCommand(),
		newComplaintListCommand(),
	)
	return cmd
}

func newComplaintSubmitCommand() *cobra.Command {
	var sub client.ComplaintSubmission

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new complaint",
		Long:  "Submit a complaint against a college. The server opens a tracking case and returns its ID.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			c, err := buildClient(cmd.Context(), rt)
			if err != nil {
				return err
			}
			result, err := c.Complaints().Submit(cmd.Context(), sub)
			if err != nil {
				return err
			}
			if rt.OutputFormat() == output.FormatTable {
				_, _ = fmt.Fprintf(rt.Writer(), "Complaint submitted. Track it as %s\n", result.Case.ID)
				return nil
			}
			return output.WriteObject(rt.Writer(), rt.OutputFormat(), result)
		},
	}

	cmd.Flags().StringVar(&sub.InformerName, "name", "", "Informer name")
	cmd.Flags().StringVar(&sub.InformerAddress, "address", "", "Informer address")
	cmd.Flags().StringVar(&sub.CollegeName, "college", "", "College the complaint is against")
	cmd.Flags().StringVar(&sub.CollegeLocation, "location", "", "College location")
	cmd.Flags().StringVar(&sub.ComplaintTitle, "title", "", "Complaint category or title")
	cmd.Flags().StringVar(&sub.ComplaintDetails, "details", "", "Complaint details")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("college")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("details")
	return cmd
}

func newComplaintListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your own complaints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			c, err := buildClient(cmd.Context(), rt)
			if err != nil {
				return err
			}
			complaints, err := c.Complaints().List(cmd.Context())
			if err != nil {
				return err
			}
			if rt.OutputFormat() == output.FormatTable {
				if len(complaints) == 0 {
					_, _ = fmt.Fprintln(rt.Writer(), "No complaints submitted")
					return nil
				}
				output.WriteComplaintTable(rt.Writer(), complaints)
				return nil
			}
			return output.WriteObject(rt.Writer(), rt.OutputFormat(), complaints)
		},
	}
}
