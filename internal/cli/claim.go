package cli

import (
	"github.com/spf13/cobra"
)

func newClaimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Handicap claim commands",
	}

	cmd.AddCommand(newClaimSetCmd())
	cmd.AddCommand(newClaimLockCmd())
	cmd.AddCommand(newClaimUnlockCmd())

	return cmd
}

func newClaimSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <code> <seat-id> <value>",
		Short: "Set a seat's handicap claim",
		Long: `Set a seat's handicap claim value.

The value is handicap text like "12.3" (0.0 to 54.0, at most one decimal
place). Pass an empty string to clear the claim.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"value": args[2]}
			var result Seat
			if err := client.Put("/api/v1/flights/"+args[0]+"/seats/"+args[1]+"/claim", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newClaimLockCmd() *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "lock <code> <seat-id>",
		Short: "Lock a seat's handicap claim for validation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if value != "" {
				req["value"] = value
			}

			var result Seat
			if err := client.Post("/api/v1/flights/"+args[0]+"/seats/"+args[1]+"/claim/lock", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Commit this value with the lock")

	return cmd
}

func newClaimUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <code> <seat-id>",
		Short: "Unlock a seat's handicap claim for editing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Seat
			if err := client.Post("/api/v1/flights/"+args[0]+"/seats/"+args[1]+"/claim/unlock", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
