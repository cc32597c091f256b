package classifier

import "fmt"

const (
	// DepthThreshold is the minimum transit depth that is plausibly caused by a planet sized body.
	DepthThreshold = 0.0095
	// MinSNR is the signal to noise ratio below which the detection is not reliable.
	MinSNR = 10.0
	// MaxPlanetRadius is the radius in earth radii above which the companion is more likely a star.
	MaxPlanetRadius = 20.0
	// ConfidenceFloor is the confidence of a decision taken right at the threshold.
	ConfidenceFloor = 0.5
	// ConfidenceCap is the maximum confidence, we never claim certainty.
	ConfidenceCap = 0.99
	// ConfidenceSlope is the confidence gained per unit of depth distance from the threshold.
	ConfidenceSlope = 50.0
	// ConfirmedConfidence is the confidence above which a planetary signal is labelled as confirmed.
	ConfirmedConfidence = 0.6
)

// Defaults for the optional quantities that have a physical meaning.
const (
	DefaultStellarTemperature = 5778.0
	DefaultStellarRadius      = 1.0
	DefaultStellarMagnitude   = 14.0
	DefaultSurfaceGravity     = 4.438
	DefaultImpactParameter    = 0.5

	// earthRadiiPerSolarRadius converts solar radii to earth radii.
	earthRadiiPerSolarRadius = 109.1
	daysPerYear              = 365.25
)

// Config holds the thresholds of the decision procedure.
type Config struct {
	DepthThreshold      float64 `yaml:"depth_threshold" json:"depth_threshold"`
	MinSNR              float64 `yaml:"min_snr" json:"min_snr"`
	MaxPlanetRadius     float64 `yaml:"max_planet_radius" json:"max_planet_radius"`
	ConfidenceFloor     float64 `yaml:"confidence_floor" json:"confidence_floor"`
	ConfidenceCap       float64 `yaml:"confidence_cap" json:"confidence_cap"`
	ConfidenceSlope     float64 `yaml:"confidence_slope" json:"confidence_slope"`
	ConfirmedConfidence float64 `yaml:"confirmed_confidence" json:"confirmed_confidence"`
}

// DefaultConfig returns the configuration based on the reference constants.
func DefaultConfig() Config {
	return Config{
		DepthThreshold:      DepthThreshold,
		MinSNR:              MinSNR,
		MaxPlanetRadius:     MaxPlanetRadius,
		ConfidenceFloor:     ConfidenceFloor,
		ConfidenceCap:       ConfidenceCap,
		ConfidenceSlope:     ConfidenceSlope,
		ConfirmedConfidence: ConfirmedConfidence,
	}
}

// OrDefault returns the default configuration for an empty one.
func (c Config) OrDefault() Config {
	if c == (Config{}) {
		return DefaultConfig()
	}
	return c
}

// Thresholds overrides single values of a Config.
// Unset values keep the ones of the config, a zero value is applied as zero.
type Thresholds struct {
	DepthThreshold      *float64 `yaml:"depth_threshold"`
	MinSNR              *float64 `yaml:"min_snr"`
	MaxPlanetRadius     *float64 `yaml:"max_planet_radius"`
	ConfidenceFloor     *float64 `yaml:"confidence_floor"`
	ConfidenceCap       *float64 `yaml:"confidence_cap"`
	ConfidenceSlope     *float64 `yaml:"confidence_slope"`
	ConfirmedConfidence *float64 `yaml:"confirmed_confidence"`
}

// Apply sets the given thresholds on the config.
func (t Thresholds) Apply(c Config) Config {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.DepthThreshold, t.DepthThreshold)
	set(&c.MinSNR, t.MinSNR)
	set(&c.MaxPlanetRadius, t.MaxPlanetRadius)
	set(&c.ConfidenceFloor, t.ConfidenceFloor)
	set(&c.ConfidenceCap, t.ConfidenceCap)
	set(&c.ConfidenceSlope, t.ConfidenceSlope)
	set(&c.ConfirmedConfidence, t.ConfirmedConfidence)
	return c
}

// Check verifies that the thresholds keep the confidence within its bounds.
// A zero MinSNR disables the snr vetting.
func (c Config) Check() error {
	if c.DepthThreshold <= 0 {
		return fmt.Errorf("depth threshold must be positive: %v", c.DepthThreshold)
	}
	if c.MinSNR < 0 {
		return fmt.Errorf("min snr must not be negative: %v", c.MinSNR)
	}
	if c.MaxPlanetRadius <= 0 {
		return fmt.Errorf("max planet radius must be positive: %v", c.MaxPlanetRadius)
	}
	if c.ConfidenceSlope <= 0 {
		return fmt.Errorf("confidence slope must be positive: %v", c.ConfidenceSlope)
	}
	if c.ConfidenceFloor < ConfidenceFloor {
		return fmt.Errorf("confidence floor %v below %v", c.ConfidenceFloor, ConfidenceFloor)
	}
	if c.ConfidenceCap > ConfidenceCap {
		return fmt.Errorf("confidence cap %v above %v", c.ConfidenceCap, ConfidenceCap)
	}
	if c.ConfidenceFloor > c.ConfidenceCap {
		return fmt.Errorf("confidence floor %v above cap %v", c.ConfidenceFloor, c.ConfidenceCap)
	}
	if c.ConfirmedConfidence < c.ConfidenceFloor || c.ConfirmedConfidence > c.ConfidenceCap {
		return fmt.Errorf("confirmed confidence %v outside [%v, %v]", c.ConfirmedConfidence, c.ConfidenceFloor, c.ConfidenceCap)
	}
	return nil
}
