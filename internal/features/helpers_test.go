package features

import (
	"fmt"
	"time"

	"nba-feature-lab/internal/domain"
)

var day0 = time.Date(2022, time.October, 18, 0, 0, 0, 0, time.UTC)

func statsOf(v float64) map[domain.StatName]float64 {
	m := make(map[domain.StatName]float64, len(domain.AllStats))
	for _, s := range domain.AllStats {
		m[s] = v
	}
	return m
}

func gameRow(team int64, gameID string, day int, win, home bool, v float64) *domain.GameRow {
	r := domain.ResultLoss
	if win {
		r = domain.ResultWin
	}
	return &domain.GameRow{
		GameID:   gameID,
		TeamID:   team,
		Season:   "2022-23",
		GameDate: day0.AddDate(0, 0, day),
		IsHome:   home,
		Result:   r,
		Stats:    statsOf(v),
		Seq:      day*2 + int(team%2),
	}
}

// league returns n head-to-head games between teams 1 and 2. Team 1 wins
// on odd days and is home on even days. Team 1's stats equal the day
// number, team 2's equal 100 plus the day number.
func league(n int) []*domain.GameRow {
	rows := make([]*domain.GameRow, 0, 2*n)
	for d := 1; d <= n; d++ {
		id := fmt.Sprintf("00222%05d", d)
		aWins := d%2 == 1
		aHome := d%2 == 0
		rows = append(rows,
			gameRow(1, id, d, aWins, aHome, float64(d)),
			gameRow(2, id, d, !aWins, !aHome, float64(100+d)),
		)
	}
	return rows
}
