package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var missingCmd = &cobra.Command{
	Use:   "missing",
	Short: "Report parameters the given sources do not cover",
	Long:  `Assembles the frame, resolves its parameter structure against the given parameter files, and prints every path still unanswered together with the unit a value must be convertible to.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		frm, err := loadFrame(cmd)
		if err != nil {
			return err
		}
		store, err := loadStore(cmd, frm)
		if err != nil {
			return err
		}
		res, err := store.Resolve()
		if err != nil {
			return err
		}

		answered := make([]string, 0, len(res.Values))
		for path := range res.Values {
			answered = append(answered, path)
		}
		sort.Strings(answered)
		fmt.Printf("resolved (%d):\n", len(answered))
		for _, path := range answered {
			fmt.Printf("  %-40s %-14g from %s\n", path, res.Values[path], res.Sources[path])
		}

		missing := make([]string, 0, len(res.Missing))
		for path := range res.Missing {
			missing = append(missing, path)
		}
		sort.Strings(missing)
		fmt.Printf("missing (%d):\n", len(missing))
		for _, path := range missing {
			fmt.Printf("  %-40s %s\n", path, res.Missing[path])
		}
		if len(missing) > 0 {
			return fmt.Errorf("%d parameters unresolved", len(missing))
		}
		return nil
	},
}

func init() {
	missingCmd.Flags().StringSlice("params", nil, "Parameter YAML files, later files take precedence")
	rootCmd.AddCommand(missingCmd)
}
