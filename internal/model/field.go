package model

// Field is the canonical name of a feature of a transit signal.
type Field string

const (
	// OrbitalPeriod is the time between successive transits in days.
	OrbitalPeriod Field = "orbital_period"
	// TransitDuration is the duration of one transit in hours.
	TransitDuration Field = "transit_duration"
	// TransitDepth is the fractional flux decrement during the transit.
	TransitDepth Field = "transit_depth"
	// PlanetRadius is the radius of the planet in earth radii.
	PlanetRadius Field = "planet_radius"
	// InsolationFlux is the stellar flux received by the planet in earth flux units.
	InsolationFlux Field = "insolation_flux"
	// SurfaceGravity is the stellar surface gravity as log10(cm/s^2).
	SurfaceGravity Field = "surface_gravity"
	// ImpactParameter is the sky projected distance between the star and planet centers.
	ImpactParameter Field = "impact_parameter"
	// StellarMagnitude is the kepler band magnitude of the host star.
	StellarMagnitude Field = "stellar_magnitude"
	// StellarTemperature is the effective temperature of the host star in kelvin.
	StellarTemperature Field = "stellar_temperature"
	// StellarRadius is the radius of the host star in solar radii.
	StellarRadius Field = "stellar_radius"
	// SNR is the signal to noise ratio of the detected transit signal.
	SNR Field = "snr"

	OrbitalPeriodErr1   Field = "orbital_period_err1"
	OrbitalPeriodErr2   Field = "orbital_period_err2"
	TransitDepthErr1    Field = "transit_depth_err1"
	TransitDepthErr2    Field = "transit_depth_err2"
	TransitDurationErr1 Field = "transit_duration_err1"
	TransitDurationErr2 Field = "transit_duration_err2"
	PlanetRadiusErr1    Field = "planet_radius_err1"
	PlanetRadiusErr2    Field = "planet_radius_err2"
)

// Fields lists all known fields in their canonical order.
var Fields = []Field{
	OrbitalPeriod,
	TransitDuration,
	TransitDepth,
	PlanetRadius,
	InsolationFlux,
	SurfaceGravity,
	ImpactParameter,
	StellarMagnitude,
	StellarTemperature,
	StellarRadius,
	SNR,
	OrbitalPeriodErr1,
	OrbitalPeriodErr2,
	TransitDepthErr1,
	TransitDepthErr2,
	TransitDurationErr1,
	TransitDurationErr2,
	PlanetRadiusErr1,
	PlanetRadiusErr2,
}

// Required lists the fields every record must carry.
var Required = []Field{
	OrbitalPeriod,
	TransitDuration,
	TransitDepth,
}

// NonNegative lists the optional fields that cannot be negative.
var NonNegative = map[Field]bool{
	PlanetRadius:       true,
	InsolationFlux:     true,
	StellarTemperature: true,
	StellarRadius:      true,
	SNR:                true,
}

// IsRequired checks if the field is one of the required ones.
func (f Field) IsRequired() bool {
	for _, r := range Required {
		if r == f {
			return true
		}
	}
	return false
}

// Known checks if the field is part of the schema.
func (f Field) Known() bool {
	for _, k := range Fields {
		if k == f {
			return true
		}
	}
	return false
}
