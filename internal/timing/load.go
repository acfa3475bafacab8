package timing

import (
	"database/sql"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/eotw-stats/internal/game"
	"git.lost.host/meutraa/eotw-stats/internal/parser"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var ErrUnknownSource = errors.New("song root is neither a directory nor a cache database")

// Load builds a fresh Index from a song root. The root is either a
// directory of packs or the game's song cache database.
func Load(root string, logger *log.Logger) (Index, error) {
	logger = orDiscard(logger)
	info, err := os.Stat(root)
	if nil != err {
		return nil, errors.Wrap(err, "unable to stat song root")
	}
	if info.IsDir() {
		return LoadDirectory(root, &parser.DefaultParser{}, logger)
	}
	if info.Mode().IsRegular() {
		return LoadCacheDB(root, logger)
	}
	return nil, ErrUnknownSource
}

func orDiscard(logger *log.Logger) *log.Logger {
	if nil == logger {
		return log.New(io.Discard, "", 0)
	}
	return logger
}

func chartFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".sm", ".ssc":
		return true
	}
	return false
}

// LoadDirectory walks <root>/<pack>/<song>/ for chart files. The song is
// keyed by the chart title, or its directory name when the title is empty.
// A song directory with both a .ssc and a .sm file uses whichever it
// finds first.
func LoadDirectory(root string, psr parser.Parser, logger *log.Logger) (Index, error) {
	logger = orDiscard(logger)
	idx := Index{}
	if err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			logger.Println("unable to walk", p, err)
			return nil
		}
		if info.IsDir() || !chartFile(info.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if nil != err {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) != 3 {
			return nil
		}

		song, err := psr.Parse(p)
		if nil != err {
			logger.Println("unable to parse chart", err)
			return nil
		}
		id := game.SongID{Pack: parts[0], Song: song.Title}
		if id.Song == "" {
			id.Song = parts[1]
		}
		if _, ok := idx[id]; ok {
			return nil
		}
		ti, err := NewInfo(song.Offset, song.BPMs)
		if nil != err {
			logger.Println("unusable timing in", p, err)
			return nil
		}
		idx[id] = ti
		return nil
	}); nil != err {
		return nil, errors.Wrap(err, "unable to walk song root")
	}
	return idx, nil
}

// LoadCacheDB reads the songs table of the game's cache database.
// dir looks like "/Songs/<pack>/<song>/".
func LoadCacheDB(path string, logger *log.Logger) (Index, error) {
	logger = orDiscard(logger)
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if nil != err {
		return nil, errors.Wrap(err, "unable to open cache db")
	}
	defer db.Close()

	rows, err := db.Query(`select dir, title, "offset", bpms from songs`)
	if nil != err {
		return nil, errors.Wrap(err, "unable to query songs")
	}
	defer rows.Close()

	idx := Index{}
	for rows.Next() {
		var dir, title, bpms sql.NullString
		var offset sql.NullFloat64
		if err := rows.Scan(&dir, &title, &offset, &bpms); nil != err {
			return nil, errors.Wrap(err, "unable to scan song")
		}
		parts := strings.Split(strings.Trim(filepath.ToSlash(dir.String), "/"), "/")
		if len(parts) < 2 {
			continue
		}
		id := game.SongID{Pack: parts[len(parts)-2], Song: title.String}
		if id.Song == "" {
			id.Song = parts[len(parts)-1]
		}
		if _, ok := idx[id]; ok {
			continue
		}
		bs, err := parser.ParseBPMs(bpms.String)
		if nil != err {
			logger.Println("unusable bpms for", id, err)
			continue
		}
		ti, err := NewInfo(offset.Float64, bs)
		if nil != err {
			logger.Println("unusable timing for", id, err)
			continue
		}
		idx[id] = ti
	}
	if err := rows.Err(); nil != err {
		return nil, errors.Wrap(err, "unable to read songs")
	}
	return idx, nil
}
