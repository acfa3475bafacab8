package aggregate

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"git.lost.host/meutraa/eotw-stats/internal/game"
	"git.lost.host/meutraa/eotw-stats/internal/score"
	"git.lost.host/meutraa/eotw-stats/internal/testdata"
	"git.lost.host/meutraa/eotw-stats/internal/timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var song = game.SongID{Pack: "Pack", Song: "Song"}

func lookup() timing.Index {
	return timing.Index{song: testdata.Linear{SecondsPerTick: 9.0 / 99}}
}

func writeReplays(t *testing.T, replays map[string][]testdata.Hit) string {
	t.Helper()
	dir := t.TempDir()
	for key, hits := range replays {
		require.NoError(t, os.WriteFile(filepath.Join(dir, key), testdata.Replay(hits), 0o644))
	}
	return dir + string(filepath.Separator)
}

func play(key string) Score {
	return Score{Key: key, Wifescore: 0.95, Pack: song.Pack, Song: song.Song, Rate: 1}
}

func TestRunSkipsAndKeepsOrder(t *testing.T) {
	prefix := writeReplays(t, map[string][]testdata.Hit{
		"a": {{Tick: 0, Deviation: 0.01, Column: 0}, {Tick: 1, Deviation: 0.01, Column: 1}},
		"c": {{Tick: 0, Deviation: 0.01, Column: 0}},
		"d": {{Tick: 2, Deviation: -0.03, Column: 2}, {Tick: 1, Deviation: 0.2, Column: 2}},
	})
	scores := []Score{play("a"), play("b"), play("c"), play("d")}
	scores[2].Song = "Unknown"

	a := New(lookup(), WithWorkers(4)).Run(prefix, scores)

	assert.Equal(t, []int{0, 3}, a.ScoreIndices)
	assert.Equal(t, []float64{0, 0.5}, a.Manipulations)
	assert.InDelta(t, (0.01-0.03)/2, a.DeviationMean, 1e-12)
	assert.Equal(t, [4]uint64{1, 1, 2, 0}, a.NotesPerColumn)
	assert.Equal(t, [4]uint64{0, 0, 1, 0}, a.CBsPerColumn)
	assert.Equal(t, uint64(2), a.OffsetBuckets[190])
	assert.Equal(t, uint64(1), a.OffsetBuckets[150])
}

func TestRunLongestMComboTieKeepsEarliest(t *testing.T) {
	prefix := writeReplays(t, map[string][]testdata.Hit{
		"short":  testdata.Stream(5, 0, 1, 0),
		"first":  testdata.Stream(10, 0, 1, 0.02),
		"second": testdata.Stream(10, 0, 1, -0.02),
	})
	for i := 0; i < 20; i++ {
		a := New(lookup(), WithWorkers(3)).Run(prefix, []Score{play("short"), play("first"), play("second")})
		assert.Equal(t, ScoredCount{Count: 10, Scorekey: "first"}, a.LongestMCombo)
	}
}

func TestRunFastestCombo(t *testing.T) {
	prefix := writeReplays(t, map[string][]testdata.Hit{
		"slow": testdata.Stream(100, 0, 2, 0.01),
		"fast": testdata.Stream(100, 0, 1, 0.01),
		"tie":  testdata.Stream(100, 0, 1, -0.01),
	})
	a := New(lookup()).Run(prefix, []Score{play("slow"), play("fast"), play("tie")})

	assert.Equal(t, "fast", a.FastestCombo.Scorekey)
	assert.Equal(t, uint64(99), a.FastestCombo.Length)
	assert.InDelta(t, 11.0, a.FastestCombo.NPS, 1e-9)
}

func TestRunStandardDeviation(t *testing.T) {
	prefix := writeReplays(t, map[string][]testdata.Hit{
		"early": {{Tick: 0, Deviation: -0.001}, {Tick: 1, Deviation: -0.001}},
		"late":  {{Tick: 0, Deviation: 0.001}, {Tick: 1, Deviation: 0.001}},
	})
	scores := []Score{play("early"), play("late")}
	scores[1].Wifescore = 0.5

	a := New(lookup()).Run(prefix, scores)
	assert.Equal(t, 1.0, a.StandardDeviation)
	assert.Equal(t, uint64(2), a.Sub93OffsetBuckets[181])
	assert.Equal(t, uint64(0), a.Sub93OffsetBuckets[179])
}

func assertEmpty(t *testing.T, a Analysis) {
	t.Helper()
	assert.NotNil(t, a.ScoreIndices)
	assert.Empty(t, a.ScoreIndices)
	assert.NotNil(t, a.Manipulations)
	assert.Empty(t, a.Manipulations)
	assert.True(t, math.IsNaN(a.DeviationMean))
	assert.True(t, math.IsNaN(a.StandardDeviation))
	assert.Equal(t, [4]uint64{}, a.NotesPerColumn)
	assert.Equal(t, [4]uint64{}, a.CBsPerColumn)
	assert.Equal(t, score.Histogram{}, a.OffsetBuckets)
	assert.Equal(t, score.Histogram{}, a.Sub93OffsetBuckets)
	assert.Equal(t, ScoredCount{}, a.LongestMCombo)
	assert.Equal(t, ScoredCombo{}, a.FastestCombo)
}

func TestRunEmptyBatch(t *testing.T) {
	assertEmpty(t, New(lookup()).Run(t.TempDir(), nil))
}

func TestRunNothingReadable(t *testing.T) {
	prefix := writeReplays(t, nil)
	assertEmpty(t, New(lookup()).Run(prefix, []Score{play("missing"), play("gone")}))
	assertEmpty(t, New(nil).Run(prefix, []Score{play("missing")}))
}

type countingScorer struct {
	score.DefaultScorer
	paths chan string
}

func (s *countingScorer) AnalyzeFile(path string, wifescore, rate float64, ti timing.Info) (*score.Analysis, error) {
	s.paths <- path
	return s.DefaultScorer.AnalyzeFile(path, wifescore, rate, ti)
}

func TestRunPathIsPrefixPlusKey(t *testing.T) {
	s := &countingScorer{paths: make(chan string, 1)}
	New(lookup(), WithScorer(s)).Run("/replays/x-", []Score{play("key")})
	assert.Equal(t, "/replays/x-key", <-s.paths)
}

func TestRunFromSongRoot(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Pack", "Song")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "song.sm"), testdata.Chart("Song", 0, "0.000=60.000"), 0o644))

	// One note per beat at 60 bpm, 99 seconds
	prefix := writeReplays(t, map[string][]testdata.Hit{"k": testdata.Stream(100, 0, 48, 0.005)})

	a, err := Run(prefix, []Score{play("k")}, root)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, a.ScoreIndices)
	assert.InDelta(t, 1.0, a.FastestCombo.NPS, 1e-9)
	assert.Equal(t, ScoredCount{Count: 100, Scorekey: "k"}, a.LongestMCombo)

	_, err = Run(prefix, []Score{play("k")}, filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestFromColumns(t *testing.T) {
	scores, err := FromColumns(
		[]string{"a", "b"},
		[]float64{0.9, 0.95},
		[]string{"p1", "p2"},
		[]string{"s1", "s2"},
		[]float64{1, 1.5},
	)
	require.NoError(t, err)
	assert.Equal(t, []Score{
		{Key: "a", Wifescore: 0.9, Pack: "p1", Song: "s1", Rate: 1},
		{Key: "b", Wifescore: 0.95, Pack: "p2", Song: "s2", Rate: 1.5},
	}, scores)

	_, err = FromColumns([]string{"a"}, nil, []string{"p"}, []string{"s"}, []float64{1})
	assert.Error(t, err)
}
