/*
Package gibbs assembles composable thermodynamic equation fragments into a
single differentiable state function and converts external (T, p, n) targets
into consistent internal states.

The high-level entry point is the Engine, which wraps a registry preloaded
with the built-in contributions and state definitions:

	eng, err := gibbs.New()
	if err != nil { ... }
	frm, err := eng.Assemble(registry.Config{
		Species: []string{"CO2", "H2O"},
		State:   "TVn",
		Contributions: []registry.ContributionConfig{
			{Class: "geometric-mixing"},
			{Class: "ideal-gas"},
			{Class: "van-der-waals", Name: "eos"},
		},
	})

A frame exposes its declared parameters as dotted-path -> unit pairs; a
params.Store resolves them against named sources and reports gaps in one
structured pass. See the pkg subdirectories for the individual layers.
*/
package gibbs
