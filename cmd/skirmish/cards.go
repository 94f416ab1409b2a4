package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) cardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "Print the catalog: cards, enemies and encounters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			fmt.Fprintln(w, "CARD\tCOST\tTARGET\tTEXT")
			for _, c := range a.cat.Cards() {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", c.Name, c.Cost, c.Target, c.Description)
			}
			fmt.Fprintln(w)

			fmt.Fprintln(w, "ENEMY\tHP\tPATTERN")
			for _, e := range a.cat.Enemies() {
				var pattern string
				for i, act := range e.Pattern {
					if i > 0 {
						pattern += " → "
					}
					pattern += fmt.Sprintf("%s (%s)", act.Name, act.Summary())
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", e.Name, e.MaxHealth, pattern)
			}
			fmt.Fprintln(w)

			fmt.Fprintln(w, "ENCOUNTER\tENEMIES")
			for _, def := range a.cat.Encounters() {
				var names string
				for i, e := range def.Enemies {
					if i > 0 {
						names += ", "
					}
					names += e.Name
				}
				fmt.Fprintf(w, "%s\t%s\n", def.ID, names)
			}
			return w.Flush()
		},
	}
}
