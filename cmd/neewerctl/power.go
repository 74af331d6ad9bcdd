package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var onCmd = newPowerCommand("on", true, "Switch a light on")
var offCmd = newPowerCommand("off", false, "Switch a light off")

var (
	powerName    string
	powerVerbose bool
)

func newPowerCommand(use string, on bool, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <address>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			session, cleanup, err := connectSession(cmd.Context(), cmd, args[0], powerName)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := session.SetPower(cmd.Context(), on); err != nil {
				return err
			}
			state := "off"
			if on {
				state = "on"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", displayName(session, args[0]), state)
			return nil
		},
	}
	cmd.Flags().StringVar(&powerName, "name", "", "Advertised light name (skips the discovery scan)")
	cmd.Flags().BoolVar(&powerVerbose, "verbose", false, "Enable debug logging")
	return cmd
}
