package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the assembled frame's parameter structure",
	Long:  `Assembles the frame from the configuration and prints every declared parameter path with the unit a value must be convertible to, plus the declared domain bounds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		frm, err := loadFrame(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("state: %s (%d slots, %d species)\n", frm.StateName(), frm.StateLen(), frm.Species().Len())

		structure := frm.ParameterStructure()
		paths := make([]string, 0, len(structure))
		for path := range structure {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		fmt.Printf("parameters (%d):\n", len(paths))
		for _, path := range paths {
			fmt.Printf("  %-40s %s\n", path, structure[path])
		}

		bounds := frm.Bounds()
		fmt.Printf("bounds (%d):\n", len(bounds))
		for _, b := range bounds {
			fmt.Printf("  %s >= 0\n", b.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
