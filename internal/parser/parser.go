package parser

import "git.lost.host/meutraa/eotw-stats/internal/game"

type Parser interface {
	Parse(file string) (*game.SongTiming, error)
}
