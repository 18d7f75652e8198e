package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/karstlabs/gibbs/pkg/frame"
	"github.com/karstlabs/gibbs/pkg/params"
	"github.com/karstlabs/gibbs/pkg/quantity"
)

// paramFile is the on-disk shape of one parameter source.
type paramFile struct {
	Parameters map[string]paramEntry `yaml:"parameters"`
}

type paramEntry struct {
	Value float64 `yaml:"value"`
	Unit  string  `yaml:"unit"`
}

// loadSource reads one parameter YAML file into a map source.
func loadSource(path string) (params.MapSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read params: %w", err)
	}
	var pf paramFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse params %s: %w", path, err)
	}
	src := make(params.MapSource, len(pf.Parameters))
	for p, entry := range pf.Parameters {
		u, err := quantity.Parse(entry.Unit)
		if err != nil {
			return nil, fmt.Errorf("params %s: %q: %w", path, p, err)
		}
		src[p] = quantity.Scalar(entry.Value, u)
	}
	return src, nil
}

// loadStore builds a parameter store for the frame and feeds it every file
// named by the --params flag, in order, so later files take precedence.
func loadStore(cmd *cobra.Command, frm *frame.Frame) (*params.Store, error) {
	store := params.NewStore()
	if _, err := store.GetSymbols(frm.ParameterStructure()); err != nil {
		return nil, err
	}
	files, _ := cmd.Flags().GetStringSlice("params")
	for _, file := range files {
		src, err := loadSource(file)
		if err != nil {
			return nil, err
		}
		if err := store.AddSource(filepath.Base(file), src); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// parseQuantity reads a "value unit" flag, e.g. "350 K" or "12.5 bar".
func parseQuantity(s string) (quantity.Quantity, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return quantity.Quantity{}, fmt.Errorf("expected \"value unit\", got %q", s)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return quantity.Quantity{}, fmt.Errorf("value %q: %w", fields[0], err)
	}
	u, err := quantity.Parse(fields[1])
	if err != nil {
		return quantity.Quantity{}, err
	}
	return quantity.Scalar(v, u), nil
}
