// Package idhash computes deterministic content digests of pipeline input.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"

	"nba-feature-lab/internal/domain"
)

// InputDigest returns a hex-encoded SHA256 over tables. Tables are hashed in
// (team_id, season) order so the digest does not depend on how the source
// listed them; rows are hashed in table order because dedup keeps the first
// occurrence. Returns "" for no tables.
func InputDigest(tables []*domain.GameLogTable) string {
	if len(tables) == 0 {
		return ""
	}
	ordered := make([]*domain.GameLogTable, len(tables))
	copy(ordered, tables)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].TeamID != ordered[j].TeamID {
			return ordered[i].TeamID < ordered[j].TeamID
		}
		return ordered[i].Season < ordered[j].Season
	})

	h := sha256.New()
	for _, t := range ordered {
		fmt.Fprintf(h, "table|%d|%s|%d\n", t.TeamID, t.Season, len(t.Rows))
		for _, r := range t.Rows {
			fmt.Fprintf(h, "%d|%s|%s|%s|%s", r.TeamID, r.GameID, r.GameDate, r.Matchup, r.WL)
			for _, stat := range domain.AllStats {
				h.Write([]byte{'|'})
				if v, ok := r.Stat(stat); ok {
					h.Write([]byte(strconv.FormatFloat(v, 'g', -1, 64)))
				}
			}
			h.Write([]byte{'\n'})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
