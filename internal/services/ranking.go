package services

import (
	"sort"

	"github.com/whdcks5588-jpg/event-kit/internal/models"
)

type RankingEntry struct {
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
}

// ComputeRanking sums each ended question's points over its correct answers,
// grouped by nickname. The nickname, not the participant id, is the grouping
// key: legacy standalone sessions only ever recorded a nickname, and it is
// what the display shows. Participants sharing a nickname merge.
//
// Pure function of the given rows: the same input always yields the same
// ordered top 10. Ties keep the order nicknames first appear in the answer
// slice, so callers should pass answers ordered by submission time.
func ComputeRanking(sessions []models.QuizSession, answers []models.QuizAnswer) []RankingEntry {
	points := make(map[uint]int, len(sessions))
	for _, sess := range sessions {
		if sess.Status == models.QuizStatusEnded {
			points[sess.ID] = sess.Points
		}
	}

	totals := make(map[string]int)
	var order []string
	for _, a := range answers {
		pts, ended := points[a.SessionID]
		if !ended || a.IsCorrect == nil || !*a.IsCorrect {
			continue
		}
		if _, seen := totals[a.Nickname]; !seen {
			order = append(order, a.Nickname)
		}
		totals[a.Nickname] += pts
	}

	entries := make([]RankingEntry, 0, len(order))
	for _, nick := range order {
		entries = append(entries, RankingEntry{Nickname: nick, Score: totals[nick]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	if len(entries) > 10 {
		entries = entries[:10]
	}
	return entries
}
