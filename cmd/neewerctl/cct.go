package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cctCmd represents the cct command
var cctCmd = &cobra.Command{
	Use:   "cct <address>",
	Short: "Set brightness and color temperature",
	Long: `Set a light's brightness, color temperature, and green/magenta tint.

Color temperature is given in device units of hundreds of Kelvin, e.g. 53
for 5300K. The accepted range depends on the light model. Tint runs from
-50 (full green) to +50 (full magenta) and is only applied on lights that
support it.`,
	Args: cobra.ExactArgs(1),
	RunE: runCCT,
}

var (
	cctBrightness int
	cctValue      int
	cctGM         int
	cctName       string
	cctVerbose    bool
)

func init() {
	cctCmd.Flags().IntVarP(&cctBrightness, "brightness", "b", 100, "Brightness percent (0-100)")
	cctCmd.Flags().IntVarP(&cctValue, "temperature", "t", 53, "Color temperature in 100K units")
	cctCmd.Flags().IntVarP(&cctGM, "tint", "g", 0, "Green/magenta tint (-50 to +50)")
	cctCmd.Flags().StringVar(&cctName, "name", "", "Advertised light name (skips the discovery scan)")
	cctCmd.Flags().BoolVar(&cctVerbose, "verbose", false, "Enable debug logging")
}

func runCCT(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	session, cleanup, err := connectSession(cmd.Context(), cmd, args[0], cctName)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := session.SetCCT(cmd.Context(), cctBrightness, cctValue, cctGM); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %d00K at %d%%\n",
		displayName(session, args[0]), cctValue, cctBrightness)
	return nil
}
