package runtime

// ErrorKind names an injected execution failure
type ErrorKind string

const (
	ErrorKindConnectionTimeout   ErrorKind = "ConnectionTimeout"
	ErrorKindValidationError     ErrorKind = "ValidationError"
	ErrorKindTransformationError ErrorKind = "TransformationError"
)

var errorKinds = []ErrorKind{
	ErrorKindConnectionTimeout,
	ErrorKindValidationError,
	ErrorKindTransformationError,
}

const (
	slowLatencyMinMs = 800
	slowLatencyMaxMs = 2500

	fallbackRecordsMin = 10
	fallbackRecordsMax = 150
)

// ChaosConfig controls fault injection applied after every run
type ChaosConfig struct {
	Enabled          bool
	WarnProbability  float64
	ErrorProbability float64
}

// DefaultChaosConfig returns the standard demo probabilities
func DefaultChaosConfig() ChaosConfig {
	return ChaosConfig{Enabled: true, WarnProbability: 0.30, ErrorProbability: 0.10}
}

// chaosOutcome is the result of one chaos pass. SlowLatencyMs is zero when
// no warning was injected; Kind is empty unless Failed.
type chaosOutcome struct {
	SlowLatencyMs int
	Failed        bool
	Kind          ErrorKind
}

// roll draws, in order: the warning trial, the latency (only on a hit), the
// failure trial, and the kind (only on a hit). Tests script Random in that order.
func (c ChaosConfig) roll(r Random) chaosOutcome {
	var out chaosOutcome
	if !c.Enabled {
		return out
	}
	if r.Float64() < c.WarnProbability {
		out.SlowLatencyMs = slowLatencyMinMs + r.IntN(slowLatencyMaxMs-slowLatencyMinMs+1)
	}
	if r.Float64() < c.ErrorProbability {
		out.Failed = true
		out.Kind = errorKinds[r.IntN(len(errorKinds))]
	}
	return out
}

func drawFallbackRecords(r Random) int {
	return fallbackRecordsMin + r.IntN(fallbackRecordsMax-fallbackRecordsMin+1)
}
