package models

// RecommendationType identifies the stream a recommendation applies to.
type RecommendationType string

const (
	RecommendationVideo    RecommendationType = "video"
	RecommendationAudio    RecommendationType = "audio"
	RecommendationSubtitle RecommendationType = "subtitle"
)

// Impact rates how much a recommendation changes the output.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Recommendation is a single suggested change for a file.
type Recommendation struct {
	Type        RecommendationType `json:"type" yaml:"type"`
	Category    string             `json:"category" yaml:"category"`
	Description string             `json:"description" yaml:"description"`
	From        string             `json:"from" yaml:"from"`
	To          string             `json:"to" yaml:"to"`
	Impact      Impact             `json:"impact" yaml:"impact"`
	Reason      string             `json:"reason" yaml:"reason"`
}

// SizeEstimate is the projected output size for a file (bytes).
type SizeEstimate struct {
	Original   int64 `json:"original" yaml:"original"`
	Optimized  int64 `json:"optimized" yaml:"optimized"`
	Saved      int64 `json:"saved" yaml:"saved"`
	Percentage int   `json:"percentage" yaml:"percentage"`
}

// CommandExplanation describes one parameter of a synthesized command.
type CommandExplanation struct {
	Param       string `json:"param" yaml:"param"`
	Description string `json:"description" yaml:"description"`
}
