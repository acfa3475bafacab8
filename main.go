package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"git.lost.host/meutraa/eotw-stats/internal/aggregate"
	"git.lost.host/meutraa/eotw-stats/internal/config"
	"git.lost.host/meutraa/eotw-stats/internal/render"
	"git.lost.host/meutraa/eotw-stats/internal/savegame"
	"git.lost.host/meutraa/eotw-stats/internal/theme"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); nil != err {
		log.Fatalln(err)
	}
}

// replayPrefix ends in a separator, replay keys are appended directly.
func replayPrefix(dir string) string {
	return filepath.Clean(dir) + string(filepath.Separator)
}

func run(args []string, out io.Writer) error {
	cfg, err := config.Parse(args)
	if nil != err {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	scores, err := savegame.Load(cfg.Savegame)
	if nil != err {
		return fmt.Errorf("unable to list scores: %w", err)
	}
	logger.Printf("analyzing %v scores\n", len(scores))

	analysis, err := aggregate.Run(
		replayPrefix(cfg.Replays),
		scores,
		cfg.Songs,
		aggregate.WithWorkers(cfg.Workers),
		aggregate.WithLogger(logger),
	)
	if nil != err {
		return fmt.Errorf("unable to analyze replays: %w", err)
	}

	if len(analysis.ScoreIndices) == 0 {
		log.Println("no valid replays found at all in the directory")
	}

	var r render.Renderer = &render.DefaultRenderer{Theme: &theme.DefaultTheme{}}
	if err := r.Summary(out, len(scores), &analysis); nil != err {
		return err
	}
	if cfg.Histogram {
		fmt.Fprintln(out)
		if err := r.Histogram(out, "Hit offsets", &analysis.OffsetBuckets); nil != err {
			return err
		}
	}
	if cfg.Sub93 {
		fmt.Fprintln(out)
		if err := r.Histogram(out, "Hit offsets below 93%", &analysis.Sub93OffsetBuckets); nil != err {
			return err
		}
	}
	return nil
}
