package contract

// Metadata is the producer's confidence or validation block. It is shown
// next to the form but never edited or exported.
type Metadata struct {
	Score       *float64 `json:"score,omitempty" yaml:"score,omitempty"`
	Details     string   `json:"details,omitempty" yaml:"details,omitempty"`
	NeedsReview bool     `json:"needs_review,omitempty" yaml:"needs_review,omitempty"`
}

// Quality bands for the confidence banner.
const (
	QualityGood    = "good"
	QualityWarning = "warning"
	QualityPoor    = "poor"
)

// Quality classifies the score: >=95 good, >=80 warning, anything else poor.
// Without a score it returns "".
func (m *Metadata) Quality() string {
	if m == nil || m.Score == nil {
		return ""
	}
	switch s := *m.Score; {
	case s >= 95:
		return QualityGood
	case s >= 80:
		return QualityWarning
	default:
		return QualityPoor
	}
}

var metadataKeys = []string{"confidence", "validation"}

// readMetadata looks for a confidence or validation object at the top of the
// document, then inside the working subtree.
func readMetadata(doc, sub node) *Metadata {
	for _, scope := range []node{doc, sub} {
		for _, key := range metadataKeys {
			if m := decodeMetadata(scope.child(key)); m != nil {
				return m
			}
		}
	}
	return nil
}

func decodeMetadata(n node) *Metadata {
	if !n.isObject() {
		return nil
	}
	m := &Metadata{}
	if score, ok := n.child("score").number(); ok {
		m.Score = &score
	}
	m.Details = n.child("details").String()
	if m.Details == "" {
		m.Details = n.child("message").String()
	}
	m.NeedsReview, _ = n.child("needs_review").boolean()
	if m.Score == nil && m.Details == "" {
		return nil
	}
	return m
}
