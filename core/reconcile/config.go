package reconcile

// Config holds configuration for the reconcile engine.
type Config struct {
	// MaxSlots is the number of numbered slots generated per product model.
	MaxSlots int `mapstructure:"max_slots" default:"18"`
	// Origin tags writes issued by the engine so their triggers can be ignored.
	Origin string `mapstructure:"origin" default:"reconcile"`
}
