package replicate

// Params tunes the SAM-2 automatic mask generator. The profiles below unify
// the parameter sets that previously lived in separate pipeline variants.
type Params struct {
	PointsPerSide        int
	PredIoUThresh        float64
	StabilityScoreThresh float64
	UseM2M               bool
}

var (
	// FastParams biases for latency: reduced sampling density and raised
	// confidence thresholds. This is the pipeline default.
	FastParams = Params{PointsPerSide: 16, PredIoUThresh: 0.90, StabilityScoreThresh: 0.90, UseM2M: false}

	// QualityParams trades latency for recall.
	QualityParams = Params{PointsPerSide: 32, PredIoUThresh: 0.88, StabilityScoreThresh: 0.95, UseM2M: true}

	// EdgeParams samples densely for thin border regions such as curbing.
	EdgeParams = Params{PointsPerSide: 64, PredIoUThresh: 0.95, StabilityScoreThresh: 0.95, UseM2M: true}
)

// WithDefaults fills zero-valued fields from the fast profile.
func (p Params) WithDefaults() Params {
	if p.PointsPerSide <= 0 {
		p.PointsPerSide = FastParams.PointsPerSide
	}
	if p.PredIoUThresh <= 0 {
		p.PredIoUThresh = FastParams.PredIoUThresh
	}
	if p.StabilityScoreThresh <= 0 {
		p.StabilityScoreThresh = FastParams.StabilityScoreThresh
	}
	return p
}
