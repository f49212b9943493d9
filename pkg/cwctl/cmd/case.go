package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campuswatch/campuswatch/pkg/cwctl/output"
)

func NewCaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "case",
		Aliases: []string{"cases", "track"},
		Short:   "Track and manage complaint cases",
	}
	cmd.AddCommand(
		newCaseGetCommand(),
		newCaseRecentCommand(),
		newCaseEscalateCommand(),
		newCaseResolveCommand(),
	)
	return cmd
}

func newCaseGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CASE_ID",
		Short: "Show a case by its tracking ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			c, err := buildClient(cmd.Context(), rt)
			if err != nil {
				return err
			}
			cs, err := c.Cases().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if rt.OutputFormat() == output.FormatTable {
				output.WriteCaseDetail(rt.Writer(), cs)
				return nil
			}
			return output.WriteObject(rt.Writer(), rt.OutputFormat(), cs)
		},
	}
}

func newCaseRecentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently tracked case IDs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			c, err := buildClient(cmd.Context(), rt)
			if err != nil {
				return err
			}
			recent, err := c.Cases().Recent(cmd.Context())
			if err != nil {
				return err
			}
			if rt.OutputFormat() == output.FormatTable {
				if len(recent) == 0 {
					_, _ = fmt.Fprintln(rt.Writer(), "No recent searches")
					return nil
				}
				output.WriteList(rt.Writer(), recent)
				return nil
			}
			return output.WriteObject(rt.Writer(), rt.OutputFormat(), recent)
		},
	}
}

func newCaseEscalateCommand() *cobra.Command {
	var (
		to     string
		reason string
	)

	cmd := &cobra.Command{
		Use:   "escalate CASE_ID",
		Short: "Escalate a case to a higher authority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			c, err := buildClient(cmd.Context(), rt)
			if err != nil {
				return err
			}
			cs, err := c.Cases().Escalate(cmd.Context(), args[0], to, reason)
			if err != nil {
				return err
			}
			if rt.OutputFormat() == output.FormatTable {
				_, _ = fmt.Fprintf(rt.Writer(), "Case %s escalated to %s (escalation %d)\n", cs.ID, to, cs.EscalationCount)
				return nil
			}
			return output.WriteObject(rt.Writer(), rt.OutputFormat(), cs)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Escalation authority (see 'cwctl authority list')")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason for the escalation")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func newCaseResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve CASE_ID",
		Short: "Mark a case as resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			c, err := buildClient(cmd.Context(), rt)
			if err != nil {
				return err
			}
			cs, err := c.Cases().Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if rt.OutputFormat() == output.FormatTable {
				_, _ = fmt.Fprintf(rt.Writer(), "Case %s resolved\n", cs.ID)
				return nil
			}
			return output.WriteObject(rt.Writer(), rt.OutputFormat(), cs)
		},
	}
}
