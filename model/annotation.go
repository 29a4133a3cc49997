package model

// Annotation holds the parsed contents of one simple-seq annotation
// file: parallel sequences of segment onsets, offsets and labels, all
// times in seconds relative to the start of the audio file.
type Annotation struct {
	Onsets  []float64
	Offsets []float64
	Labels  []string
}

// Len returns the number of annotated segments.
func (a *Annotation) Len() int {
	return len(a.Onsets)
}

// Empty reports whether the annotation has no segments. Files with no
// segments are valid; some recordings contain no vocalizations.
func (a *Annotation) Empty() bool {
	return len(a.Onsets) == 0
}
