// Package aggregate analyzes a batch of scores in parallel and folds the
// results into a single summary.
package aggregate

import (
	"io"
	"log"
	"math"
	"runtime"

	"git.lost.host/meutraa/eotw-stats/internal/game"
	"git.lost.host/meutraa/eotw-stats/internal/score"
	"git.lost.host/meutraa/eotw-stats/internal/timing"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Score describes one play to analyze.
type Score struct {
	Key       string
	Wifescore float64
	Pack      string
	Song      string
	Rate      float64
}

func (s Score) SongID() game.SongID {
	return game.SongID{Pack: s.Pack, Song: s.Song}
}

// FromColumns zips the per-field sequences of a batch. All of them must
// have the same length.
func FromColumns(keys []string, wifescores []float64, packs, songs []string, rates []float64) ([]Score, error) {
	n := len(keys)
	if len(wifescores) != n || len(packs) != n || len(songs) != n || len(rates) != n {
		return nil, errors.Errorf("column lengths differ: %v keys, %v wifescores, %v packs, %v songs, %v rates",
			n, len(wifescores), len(packs), len(songs), len(rates))
	}
	scores := make([]Score, n)
	for i := range scores {
		scores[i] = Score{
			Key:       keys[i],
			Wifescore: wifescores[i],
			Pack:      packs[i],
			Song:      songs[i],
			Rate:      rates[i],
		}
	}
	return scores, nil
}

type ScoredCount struct {
	Count    uint64
	Scorekey string
}

type ScoredCombo struct {
	Length   uint64
	NPS      float64
	Scorekey string
}

// Analysis is the summary over every score that could be analyzed.
type Analysis struct {
	// Positions in the input batch of the analyzed scores
	ScoreIndices []int
	// Manipulation of each analyzed score, parallel to ScoreIndices
	Manipulations []float64

	// Mean of the per score deviation means, in seconds
	DeviationMean float64

	NotesPerColumn [game.NumColumns]uint64
	CBsPerColumn   [game.NumColumns]uint64

	LongestMCombo ScoredCount

	OffsetBuckets      score.Histogram
	Sub93OffsetBuckets score.Histogram

	// Of OffsetBuckets, in milliseconds
	StandardDeviation float64

	FastestCombo ScoredCombo
}

type Option func(*Aggregator)

// WithWorkers bounds the number of replays analyzed at once.
func WithWorkers(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(a *Aggregator) {
		if nil != logger {
			a.logger = logger
		}
	}
}

func WithScorer(s score.Scorer) Option {
	return func(a *Aggregator) {
		if nil != s {
			a.scorer = s
		}
	}
}

type Aggregator struct {
	lookup  timing.Lookup
	scorer  score.Scorer
	workers int
	logger  *log.Logger
}

func New(lookup timing.Lookup, opts ...Option) *Aggregator {
	a := &Aggregator{
		lookup:  lookup,
		scorer:  &score.DefaultScorer{},
		workers: runtime.GOMAXPROCS(0),
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run builds the timing lookup from songsRoot and analyzes the batch. The
// lookup is not kept between calls.
func Run(prefix string, scores []Score, songsRoot string, opts ...Option) (Analysis, error) {
	a := New(nil, opts...)
	idx, err := timing.Load(songsRoot, a.logger)
	if nil != err {
		return Analysis{}, err
	}
	a.lookup = idx
	return a.Run(prefix, scores), nil
}

// Run analyzes the replay at prefix+key of every score. Scores whose
// replay cannot be read or whose song has no timing info are left out.
func (a *Aggregator) Run(prefix string, scores []Score) Analysis {
	return fold(scores, a.analyzeAll(prefix, scores))
}

func (a *Aggregator) analyzeAll(prefix string, scores []Score) []*score.Analysis {
	results := make([]*score.Analysis, len(scores))

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, s := range scores {
		i, s := i, s
		g.Go(func() error {
			results[i] = a.analyze(prefix, s)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (a *Aggregator) analyze(prefix string, s Score) *score.Analysis {
	if nil == a.lookup {
		return nil
	}
	ti, ok := a.lookup.Get(s.SongID())
	if !ok {
		a.logger.Println("no timing info for", s.SongID(), s.Key)
		return nil
	}
	analysis, err := a.scorer.AnalyzeFile(prefix+s.Key, s.Wifescore, s.Rate, ti)
	if nil != err {
		a.logger.Println("skipping", s.Key, err)
		return nil
	}
	return analysis
}

func fold(scores []Score, results []*score.Analysis) Analysis {
	analysis := Analysis{
		ScoreIndices:  []int{},
		Manipulations: []float64{},
	}

	deviationMeanSum := 0.0
	for i, r := range results {
		if nil == r {
			continue
		}
		key := scores[i].Key

		analysis.ScoreIndices = append(analysis.ScoreIndices, i)
		analysis.Manipulations = append(analysis.Manipulations, r.Manipulation)
		deviationMeanSum += r.DeviationMean

		for c := 0; c < game.NumColumns; c++ {
			analysis.NotesPerColumn[c] += r.NotesPerColumn[c]
			analysis.CBsPerColumn[c] += r.CBsPerColumn[c]
		}
		analysis.OffsetBuckets.Add(&r.OffsetBuckets)
		analysis.Sub93OffsetBuckets.Add(&r.Sub93OffsetBuckets)

		if r.LongestMCombo > analysis.LongestMCombo.Count {
			analysis.LongestMCombo = ScoredCount{Count: r.LongestMCombo, Scorekey: key}
		}
		if r.FastestCombo.NPS > analysis.FastestCombo.NPS {
			analysis.FastestCombo = ScoredCombo{
				Length:   r.FastestCombo.Length,
				NPS:      r.FastestCombo.NPS,
				Scorekey: key,
			}
		}
	}

	n := len(analysis.ScoreIndices)
	if n == 0 {
		analysis.DeviationMean = math.NaN()
	} else {
		analysis.DeviationMean = deviationMeanSum / float64(n)
	}
	analysis.StandardDeviation = score.StandardDeviation(&analysis.OffsetBuckets)

	return analysis
}
