package game

// Judgement is a timing window, in seconds either side of the ideal hit time.
type Judgement struct {
	Window float64
	Name   string
}

// Judgements are ordered from tightest to widest. Anything outside the
// last window does not land in the offset histogram.
var Judgements = []Judgement{
	{Window: 0.0225, Name: "Marvelous"},
	{Window: 0.045, Name: "Perfect"},
	{Window: 0.09, Name: "Great"},
	{Window: 0.135, Name: "Good"},
	{Window: 0.18, Name: "Bad"},
}

const (
	// A hit further off than this breaks the combo
	ComboBreakWindow = 0.09
	MarvelousWindow  = 0.0225

	// Combos shorter than this are too short to say anything about speed
	MinFastestComboLength = 100

	// Scores below this wifescore also feed the sub 93% histogram
	Sub93Wifescore = 0.93

	OffsetBucketRange = 180
	NumOffsetBuckets  = 2*OffsetBucketRange + 1

	NumColumns = 4
)

// Judge returns the index into Judgements for an absolute deviation in
// seconds, or -1 when it falls outside every window.
func Judge(deviation float64) int {
	if deviation < 0 {
		deviation = -deviation
	}
	for i, j := range Judgements {
		if deviation <= j.Window {
			return i
		}
	}
	return -1
}
