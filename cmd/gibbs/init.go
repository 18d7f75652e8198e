package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/karstlabs/gibbs/pkg/domain"
	"github.com/karstlabs/gibbs/pkg/quantity"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Compute a consistent initial state for a (T, p, n) target",
	Long:  `Assembles the frame, resolves parameters from the given files, and refines an internal state whose evaluated temperature, pressure, and amounts reproduce the target.`,
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
		if len(res.Missing) > 0 {
			return fmt.Errorf("%d parameters unresolved, run `gibbs missing` for the report", len(res.Missing))
		}

		target, err := targetFromFlags(cmd, frm.Species())
		if err != nil {
			return err
		}
		solved, err := frm.RefineInitialState(target, res.Values)
		if err != nil {
			return err
		}

		fmt.Printf("state (%s): %v\n", frm.StateName(), solved.State)
		fmt.Printf("iterations: %d\n", solved.Iterations)
		if solved.Iterations > 0 {
			fmt.Printf("residual norm^2: %g\n", solved.Norm2)
		}
		return nil
	},
}

// targetFromFlags builds the (T, p, n) target. Amounts are given per species
// as "name=value unit" and every species must be covered.
func targetFromFlags(cmd *cobra.Command, species domain.SpeciesSet) (domain.InitialState, error) {
	tStr, _ := cmd.Flags().GetString("temperature")
	temperature, err := parseQuantity(tStr)
	if err != nil {
		return domain.InitialState{}, fmt.Errorf("--temperature: %w", err)
	}
	pStr, _ := cmd.Flags().GetString("pressure")
	pressure, err := parseQuantity(pStr)
	if err != nil {
		return domain.InitialState{}, fmt.Errorf("--pressure: %w", err)
	}

	entries, _ := cmd.Flags().GetStringSlice("amount")
	vals := make([]float64, species.Len())
	seen := make([]bool, species.Len())
	for _, entry := range entries {
		name, rest, ok := strings.Cut(entry, "=")
		if !ok {
			return domain.InitialState{}, fmt.Errorf("--amount: expected \"species=value unit\", got %q", entry)
		}
		i, ok := species.Index(name)
		if !ok {
			return domain.InitialState{}, fmt.Errorf("--amount: unknown species %q", name)
		}
		q, err := parseQuantity(rest)
		if err != nil {
			return domain.InitialState{}, fmt.Errorf("--amount %s: %w", name, err)
		}
		v, err := q.SI()
		if err != nil {
			return domain.InitialState{}, fmt.Errorf("--amount %s: %w", name, err)
		}
		vals[i] = v
		seen[i] = true
	}
	for i, ok := range seen {
		if !ok {
			return domain.InitialState{}, fmt.Errorf("--amount: species %q not given", species.Names()[i])
		}
	}
	amount := quantity.Vector(vals, quantity.MustParse("mol"))
	return domain.NewInitialState(temperature, pressure, amount)
}

func init() {
	initCmd.Flags().String("temperature", "", "Target temperature, e.g. \"350 K\"")
	initCmd.Flags().String("pressure", "", "Target pressure, e.g. \"10 bar\"")
	initCmd.Flags().StringSlice("amount", nil, "Target amount per species, e.g. \"CO2=1.5 mol\"")
	initCmd.Flags().StringSlice("params", nil, "Parameter YAML files, later files take precedence")
	_ = initCmd.MarkFlagRequired("temperature")
	_ = initCmd.MarkFlagRequired("pressure")
	_ = initCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(initCmd)
}
