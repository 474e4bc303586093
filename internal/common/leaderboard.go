package common

import "sort"

type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	DisplayName  string `json:"display_name"`
	Avatar       string `json:"avatar"`
	Score        int    `json:"score"`
	CorrectCount int    `json:"correct_count"`
	IsWinner     bool   `json:"is_winner,omitempty"`
}

// ComputeLeaderboard ranks players by score descending, ties broken by
// display name. Players with equal scores share a rank. When markWinner is
// set, every rank-1 entry is flagged.
func ComputeLeaderboard(players []*Player, markWinner bool) []LeaderboardEntry {
	sorted := make([]*Player, len(players))
	copy(sorted, players)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].DisplayName < sorted[j].DisplayName
	})

	entries := make([]LeaderboardEntry, 0, len(sorted))
	for i, p := range sorted {
		rank := i + 1
		if i > 0 && p.Score == sorted[i-1].Score {
			rank = entries[i-1].Rank
		}
		entries = append(entries, LeaderboardEntry{
			Rank:         rank,
			DisplayName:  p.DisplayName,
			Avatar:       p.Avatar,
			Score:        p.Score,
			CorrectCount: p.CorrectCount,
			IsWinner:     markWinner && rank == 1,
		})
	}
	return entries
}
