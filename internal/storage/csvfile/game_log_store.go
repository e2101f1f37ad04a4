// Package csvfile stores game logs as a directory of per-team-season CSV
// files named <Team_Name>_<season>_games.csv, one TeamGameLog result set each.
package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
	"nba-feature-lab/internal/teams"
)

var (
	fileNamePattern = regexp.MustCompile(`^(.+)_(\d{4}-\d{2})_games\.csv$`)
	seasonPattern   = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// unknownTeamPrefix names files for team IDs missing from the static lookup.
const unknownTeamPrefix = "Team_"

// GameLogStore implements storage.GameLogStore over a directory.
type GameLogStore struct {
	dir string
	mu  sync.RWMutex
}

// NewGameLogStore creates a store rooted at dir. The directory is created
// on first insert.
func NewGameLogStore(dir string) *GameLogStore {
	return &GameLogStore{dir: dir}
}

// Compile-time interface check.
var _ storage.GameLogStore = (*GameLogStore)(nil)

// FileName returns the file name used for a team-season table.
func FileName(teamID int64, season string) string {
	stem := unknownTeamPrefix + strconv.FormatInt(teamID, 10)
	if t, ok := teams.ByID(teamID); ok {
		stem = teams.FileStem(t)
	}
	return fmt.Sprintf("%s_%s_games.csv", stem, season)
}

// InsertTable writes one table. Returns ErrDuplicateKey if the file exists.
func (s *GameLogStore) InsertTable(_ context.Context, t *domain.GameLogTable) error {
	if t == nil || t.TeamID == 0 || !seasonPattern.MatchString(t.Season) {
		return storage.ErrInvalidInput
	}

	rows := make([]*domain.GameLog, len(t.Rows))
	for i, r := range t.Rows {
		if r == nil {
			return storage.ErrInvalidInput
		}
		row := *r
		row.TeamID = t.TeamID
		rows[i] = &row
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.index()
	if err != nil {
		return err
	}
	if _, exists := index[domain.TeamSeason{TeamID: t.TeamID, Season: t.Season}]; exists {
		return storage.ErrDuplicateKey
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create game log dir: %w", err)
	}
	path := filepath.Join(s.dir, FileName(t.TeamID, t.Season))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// GetTable reads one table with rows in file order.
func (s *GameLogStore) GetTable(_ context.Context, teamID int64, season string) (*domain.GameLogTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index, err := s.index()
	if err != nil {
		return nil, err
	}
	path, ok := index[domain.TeamSeason{TeamID: teamID, Season: season}]
	if !ok {
		return nil, storage.ErrNotFound
	}

	rows, err := readFile(path)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r.TeamID == 0 {
			r.TeamID = teamID
		}
		r.Season = season
	}
	return &domain.GameLogTable{TeamID: teamID, Season: season, Rows: rows}, nil
}

// ListTeamSeasons returns every table key, ordered by (team_id, season) ASC.
func (s *GameLogStore) ListTeamSeasons(_ context.Context) ([]domain.TeamSeason, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index, err := s.index()
	if err != nil {
		return nil, err
	}

	keys := make([]domain.TeamSeason, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].TeamID != keys[j].TeamID {
			return keys[i].TeamID < keys[j].TeamID
		}
		return keys[i].Season < keys[j].Season
	})
	return keys, nil
}

// index maps each team-season to its file. A missing directory is empty.
func (s *GameLogStore) index() (map[domain.TeamSeason]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[domain.TeamSeason]string{}, nil
		}
		return nil, fmt.Errorf("read game log dir: %w", err)
	}

	index := make(map[domain.TeamSeason]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := fileNamePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		path := filepath.Join(s.dir, e.Name())

		teamID, err := resolveTeamID(m[1], path)
		if err != nil {
			return nil, err
		}
		key := domain.TeamSeason{TeamID: teamID, Season: m[2]}
		if other, dup := index[key]; dup {
			return nil, fmt.Errorf("team %d season %s: both %s and %s", teamID, m[2], filepath.Base(other), e.Name())
		}
		index[key] = path
	}
	return index, nil
}

// resolveTeamID maps a file stem to a team ID, falling back to the first
// row's Team_ID for names outside the static lookup.
func resolveTeamID(stem, path string) (int64, error) {
	if t, ok := teams.ByFullName(stem); ok {
		return t.ID, nil
	}
	if id, ok := strings.CutPrefix(stem, unknownTeamPrefix); ok {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			return n, nil
		}
	}

	rows, err := readFile(path)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || rows[0].TeamID == 0 {
		return 0, fmt.Errorf("%s: cannot determine team id", filepath.Base(path))
	}
	return rows[0].TeamID, nil
}

func readFile(path string) ([]*domain.GameLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var rows []*domain.GameLog
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}
