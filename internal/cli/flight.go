package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFlightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flight",
		Short: "Flight setup commands",
	}

	cmd.AddCommand(newFlightCreateCmd())
	cmd.AddCommand(newFlightGetCmd())
	cmd.AddCommand(newFlightJoinCmd())
	cmd.AddCommand(newFlightLeaveCmd())
	cmd.AddCommand(newFlightAddGuestCmd())
	cmd.AddCommand(newFlightRemoveSeatCmd())
	cmd.AddCommand(newFlightPhaseCmd())
	cmd.AddCommand(newFlightStartCmd())

	return cmd
}

func newFlightCreateCmd() *cobra.Command {
	var name, course string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new flight",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if name != "" {
				req["name"] = name
			}
			if course != "" {
				req["course_name"] = course
			}

			var result Flight
			if err := client.Post("/api/v1/flights", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Flight name")
	cmd.Flags().StringVar(&course, "course", "", "Course name")

	return cmd
}

func newFlightGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Show flight details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Flight
			if err := client.Get("/api/v1/flights/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newFlightJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a flight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Seat
			if err := client.Post("/api/v1/flights/"+args[0]+"/join", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newFlightLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <code>",
		Short: "Leave a flight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/flights/"+args[0]+"/leave", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Left flight " + args[0])
			return nil
		},
	}
}

func newFlightAddGuestCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add-guest <code>",
		Short: "Add a guest seat for a player without the app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := map[string]string{"guest_name": name}
			var result Seat
			if err := client.Post("/api/v1/flights/"+args[0]+"/seats", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Guest name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newFlightRemoveSeatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-seat <code> <seat-id>",
		Short: "Remove a seat from a flight",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/flights/" + args[0] + "/seats/" + args[1]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Seat removed")
			return nil
		},
	}
}

func newFlightPhaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phase <code>",
		Short: "Show the flight's current phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PhaseResult
			if err := client.Get("/api/v1/flights/"+args[0]+"/phase", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newFlightStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <code>",
		Short: "Begin the round (requires all claims ratified)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Flight
			if err := client.Post("/api/v1/flights/"+args[0]+"/start", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
