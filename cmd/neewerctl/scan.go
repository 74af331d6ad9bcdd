package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/srg/neewerctl/scanner"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Neewer lights",
	Long: `Scan for nearby Neewer lights and display what was found.

Each discovered light is shown with its address, advertised name, resolved
model, numeric light type, and signal strength. Devices that do not look
like Neewer lights are filtered out.`,
	RunE: runScan,
}

var (
	scanDuration    time.Duration
	scanFormat      string
	scanAllowList   []string
	scanBlockList   []string
	scanNoDuplicate bool
	scanVerbose     bool
)

func init() {
	scanCmd.Flags().DurationVarP(&scanDuration, "duration", "d", 0, "Scan duration (defaults to the configured value)")
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "table", "Output format (table, json)")
	scanCmd.Flags().StringSliceVar(&scanAllowList, "allow", nil, "Only show lights with these addresses")
	scanCmd.Flags().StringSliceVar(&scanBlockList, "block", nil, "Hide lights with these addresses")
	scanCmd.Flags().BoolVar(&scanNoDuplicate, "no-duplicates", true, "Filter duplicate advertisements")
	scanCmd.Flags().BoolVar(&scanVerbose, "verbose", false, "Enable debug logging")
}

func runScan(cmd *cobra.Command, args []string) error {
	if scanFormat != "table" && scanFormat != "json" {
		return fmt.Errorf("invalid format '%s': must be table or json", scanFormat)
	}

	logger, err := configureLogger(cmd, "verbose")
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// All arguments validated - don't show usage on runtime errors
	cmd.SilenceUsage = true

	duration := cfg.ScanDuration
	if scanDuration > 0 {
		duration = scanDuration
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Listen for Ctrl+C to cancel
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println("\nCtrl+C pressed, cancelling scan...")
		cancel()
	}()

	progress := newCountdownPrinter("Scanning for Neewer lights", duration)
	progress.Start()

	s := scanner.New(logger)
	found, err := s.Scan(ctx, &scanner.Options{
		Duration:        duration,
		DuplicateFilter: scanNoDuplicate,
		AllowList:       scanAllowList,
		BlockList:       scanBlockList,
	})
	progress.Stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return displayLights(os.Stdout, found, scanFormat)
}

func displayLights(w io.Writer, found map[string]scanner.Light, format string) error {
	if len(found) == 0 {
		fmt.Fprintln(w, "No Neewer lights discovered")
		return nil
	}

	lights := make([]scanner.Light, 0, len(found))
	for _, l := range found {
		lights = append(lights, l)
	}
	sort.Slice(lights, func(i, j int) bool {
		return lights[i].Address < lights[j].Address
	})

	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(lights)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tNAME\tMODEL\tTYPE\tRSSI\tLAST SEEN")
	for _, l := range lights {
		model := l.Identity.ProjectName
		if model == "" {
			model = "?"
		}
		lightType := "?"
		if l.Identity.LightType != 0 {
			lightType = fmt.Sprintf("%d", l.Identity.LightType)
		}
		lastSeen := time.Since(l.LastSeen).Truncate(time.Second)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d dBm\t%s ago\n",
			l.Address, l.Name, model, lightType, l.RSSI, lastSeen)
	}
	return tw.Flush()
}
