package domain

// Property keys shared across contributions. Contributions accumulate onto
// these slots; later entries read what earlier entries wrote.
const (
	KeyTemperature       = "temperature"
	KeyPressure          = "pressure"
	KeyVolume            = "volume"
	KeyAmount            = "amount"
	KeyEntropy           = "entropy"
	KeyChemicalPotential = "chemical-potential"
	KeyAttraction        = "attraction"
	KeyAttractionGrad    = "attraction-gradient"
	KeyCovolume          = "covolume"
	KeyCovolumeMolar     = "covolume-molar"

	// KeyState holds the raw state vector a state definition sliced; it is
	// reserved for bound-derivative computation and initializers.
	KeyState = "state"
)
