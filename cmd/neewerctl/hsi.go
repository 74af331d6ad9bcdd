package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// hsiCmd represents the hsi command
var hsiCmd = &cobra.Command{
	Use:   "hsi <address>",
	Short: "Set hue, saturation, and brightness",
	Long: `Set an RGB-capable light to a hue/saturation color at the given
brightness. Hue is in degrees (0-360), saturation and brightness in percent.`,
	Args: cobra.ExactArgs(1),
	RunE: runHSI,
}

var (
	hsiHue        int
	hsiSaturation int
	hsiBrightness int
	hsiName       string
	hsiVerbose    bool
)

func init() {
	hsiCmd.Flags().IntVarP(&hsiHue, "hue", "H", 0, "Hue in degrees (0-360)")
	hsiCmd.Flags().IntVarP(&hsiSaturation, "saturation", "s", 100, "Saturation percent (0-100)")
	hsiCmd.Flags().IntVarP(&hsiBrightness, "brightness", "b", 100, "Brightness percent (0-100)")
	hsiCmd.Flags().StringVar(&hsiName, "name", "", "Advertised light name (skips the discovery scan)")
	hsiCmd.Flags().BoolVar(&hsiVerbose, "verbose", false, "Enable debug logging")
}

func runHSI(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	session, cleanup, err := connectSession(cmd.Context(), cmd, args[0], hsiName)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := session.SetHSI(cmd.Context(), hsiHue, hsiSaturation, hsiBrightness); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s set to hue %d, saturation %d%%, brightness %d%%\n",
		displayName(session, args[0]), hsiHue, hsiSaturation, hsiBrightness)
	return nil
}
