package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ivan-hilckov/lucidum/pkg/roles"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the writing personas",
	Args:  cobra.NoArgs,
	RunE:  runRoles,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(rolesCmd)
}

func runRoles(_ *cobra.Command, _ []string) (err error) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTEMPERATURE\tBEST FOR")
	for _, def := range roles.Default().Definitions() {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\n", def.ID, def.Label, def.Temperature, strings.Join(def.BestFor, ", "))
	}
	err = w.Flush()
	return err
}
