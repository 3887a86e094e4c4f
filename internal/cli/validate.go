package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Peer validation commands",
	}

	cmd.AddCommand(newValidateApproveCmd())
	cmd.AddCommand(newValidateQuestionCmd())
	cmd.AddCommand(newValidateSummaryCmd())
	cmd.AddCommand(newValidateListCmd())

	return cmd
}

func submitValidation(code, validator, target, status, note string) error {
	req := map[string]string{
		"validator_seat_id": validator,
		"status":            status,
	}
	if note != "" {
		req["note"] = note
	}

	var result Validation
	if err := client.Post("/api/v1/flights/"+code+"/seats/"+target+"/validations", req, &result); err != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	out.Print(result)
	return nil
}

func newValidateApproveCmd() *cobra.Command {
	var validator, note string

	cmd := &cobra.Command{
		Use:   "approve <code> <target-seat-id>",
		Short: "Approve a peer's locked handicap claim",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if validator == "" {
				return fmt.Errorf("--as is required")
			}
			return submitValidation(args[0], validator, args[1], "approved", note)
		},
	}

	cmd.Flags().StringVar(&validator, "as", "", "Your seat ID (required)")
	cmd.Flags().StringVar(&note, "note", "", "Optional note")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func newValidateQuestionCmd() *cobra.Command {
	var validator, note string

	cmd := &cobra.Command{
		Use:   "question <code> <target-seat-id>",
		Short: "Question a peer's locked handicap claim",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if validator == "" {
				return fmt.Errorf("--as is required")
			}
			return submitValidation(args[0], validator, args[1], "questioned", note)
		},
	}

	cmd.Flags().StringVar(&validator, "as", "", "Your seat ID (required)")
	cmd.Flags().StringVar(&note, "note", "", "Optional note")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func newValidateSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <code> <target-seat-id>",
		Short: "Show a seat's validation progress",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Summary
			if err := client.Get("/api/v1/flights/"+args[0]+"/seats/"+args[1]+"/summary", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newValidateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <code>",
		Short: "List all validation records for a flight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Validation
			if err := client.Get("/api/v1/flights/"+args[0]+"/validations", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
