package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/srg/neewerctl/internal/scenes"
)

// effectsCmd represents the effects command
var effectsCmd = &cobra.Command{
	Use:   "effects",
	Short: "List scene effects and their parameters",
	Long: `List the advanced scene effect set with each effect's ID, name, and
parameter kinds. Parameter values are passed to 'neewerctl scene' as
--param kind=value flags; the ranges shown are inclusive.`,
	Args: cobra.NoArgs,
	RunE: runEffects,
}

func runEffects(cmd *cobra.Command, args []string) error {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPARAMETERS")
	for _, def := range scenes.Effects() {
		params := make([]string, 0, len(def.Params))
		for _, kind := range def.Params {
			bounds, _ := scenes.KindBounds(kind)
			params = append(params, fmt.Sprintf("%s (%d-%d)", kind, bounds.Min, bounds.Max))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			yellow.Sprintf("%d", def.ID),
			cyan.Sprint(def.Name),
			strings.Join(params, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), "Tint (gm) is in wire units: 0 full green, 50 neutral, 100 full magenta.")
	fmt.Fprintln(cmd.OutOrStdout(), "Lights without 17-effect support only reach effects 1-9.")
	return nil
}
