package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/srg/neewerctl/internal/identity"
)

// identifyCmd represents the identify command
var identifyCmd = &cobra.Command{
	Use:   "identify <name> [identifier]",
	Short: "Resolve a light's model from its advertised name",
	Long: `Resolve a Neewer light's advertised BLE name into its model, display
nickname, and numeric light type, then look up the model's capabilities in
the lights database.

This works entirely offline from the cached database; no BLE connection is
made. The optional identifier (usually the BLE address) only feeds the
nickname.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runIdentify,
}

var identifyVerbose bool

func init() {
	identifyCmd.Flags().BoolVar(&identifyVerbose, "verbose", false, "Enable debug logging")
}

func runIdentify(cmd *cobra.Command, args []string) error {
	logger, err := configureLogger(cmd, "verbose")
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	name := args[0]
	identifier := ""
	if len(args) == 2 {
		identifier = args[1]
	}

	id, resolveErr := identity.Resolve(name, identifier)
	var notNeewer *identity.NotANeewerDeviceError
	if errors.As(resolveErr, &notNeewer) {
		return resolveErr
	}

	cat, cleanup, err := openCatalog(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", id.RawName)
	fmt.Fprintf(w, "Model:\t%s\n", id.ProjectName)
	fmt.Fprintf(w, "Nickname:\t%s\n", id.NickName)
	if id.LightType != 0 {
		fmt.Fprintf(w, "Light type:\t%d\n", id.LightType)
	} else {
		fmt.Fprintf(w, "Light type:\tunknown (%s)\n", resolveErr)
	}

	if capability, ok := cat.Lookup(id.LightType); ok && id.LightType != 0 {
		cctRange := capability.EffectiveCCTRange()
		fmt.Fprintf(w, "RGB:\t%t\n", capability.SupportRGB)
		fmt.Fprintf(w, "CCT+GM:\t%t\n", capability.SupportCCTGM)
		fmt.Fprintf(w, "CCT range:\t%d00K-%d00K\n", cctRange.Min, cctRange.Max)
		switch {
		case capability.Support17FX:
			fmt.Fprintf(w, "Scene effects:\t17\n")
		case capability.Support9FX:
			fmt.Fprintf(w, "Scene effects:\t9\n")
		default:
			fmt.Fprintf(w, "Scene effects:\tnone\n")
		}
	} else {
		fmt.Fprintf(w, "Capabilities:\tnot in database (source: %s)\n", cat.CurrentSource())
	}
	return w.Flush()
}
