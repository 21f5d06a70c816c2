package services_test

import (
	"fmt"
	"testing"

	"github.com/whdcks5588-jpg/event-kit/internal/models"
	"github.com/whdcks5588-jpg/event-kit/internal/services"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestComputeRanking_GroupsByNickname(t *testing.T) {
	sessions := []models.QuizSession{
		{ID: 1, Points: 10, Status: models.QuizStatusEnded},
		{ID: 2, Points: 20, Status: models.QuizStatusEnded},
	}
	answers := []models.QuizAnswer{
		{SessionID: 1, ParticipantID: 1, Nickname: "alice", IsCorrect: boolPtr(true)},
		{SessionID: 1, ParticipantID: 2, Nickname: "bob", IsCorrect: boolPtr(true)},
		{SessionID: 2, ParticipantID: 3, Nickname: "alice", IsCorrect: boolPtr(true)},
	}

	ranking := services.ComputeRanking(sessions, answers)

	assert.Equal(t, []services.RankingEntry{
		{Nickname: "alice", Score: 30},
		{Nickname: "bob", Score: 10},
	}, ranking, "two participants sharing a nickname merge into one entry")
}

func TestComputeRanking_SkipsUngradedAndOpenQuestions(t *testing.T) {
	sessions := []models.QuizSession{
		{ID: 1, Points: 10, Status: models.QuizStatusEnded},
		{ID: 2, Points: 50, Status: models.QuizStatusActive},
	}
	answers := []models.QuizAnswer{
		{SessionID: 1, Nickname: "alice", IsCorrect: boolPtr(true)},
		{SessionID: 1, Nickname: "bob", IsCorrect: boolPtr(false)},
		{SessionID: 1, Nickname: "carol", IsCorrect: nil},
		{SessionID: 2, Nickname: "bob", IsCorrect: boolPtr(true)},
	}

	ranking := services.ComputeRanking(sessions, answers)

	assert.Equal(t, []services.RankingEntry{{Nickname: "alice", Score: 10}}, ranking,
		"wrong, ungraded and still-open answers score nothing")
}

func TestComputeRanking_TiesKeepSubmissionOrder(t *testing.T) {
	sessions := []models.QuizSession{{ID: 1, Points: 10, Status: models.QuizStatusEnded}}
	answers := []models.QuizAnswer{
		{SessionID: 1, Nickname: "zoe", IsCorrect: boolPtr(true)},
		{SessionID: 1, Nickname: "amy", IsCorrect: boolPtr(true)},
	}

	ranking := services.ComputeRanking(sessions, answers)

	assert.Equal(t, "zoe", ranking[0].Nickname, "first correct submitter ranks first on a tie")
	assert.Equal(t, "amy", ranking[1].Nickname)
}

func TestComputeRanking_TopTenCutoff(t *testing.T) {
	sessions := []models.QuizSession{{ID: 1, Points: 10, Status: models.QuizStatusEnded}}
	var answers []models.QuizAnswer
	for i := 0; i < 12; i++ {
		answers = append(answers, models.QuizAnswer{
			SessionID: 1,
			Nickname:  fmt.Sprintf("player-%02d", i),
			IsCorrect: boolPtr(true),
		})
	}

	ranking := services.ComputeRanking(sessions, answers)
	assert.Len(t, ranking, 10)
}

func TestComputeRanking_Deterministic(t *testing.T) {
	sessions := []models.QuizSession{
		{ID: 1, Points: 10, Status: models.QuizStatusEnded},
		{ID: 2, Points: 20, Status: models.QuizStatusEnded},
	}
	answers := []models.QuizAnswer{
		{SessionID: 1, Nickname: "alice", IsCorrect: boolPtr(true)},
		{SessionID: 1, Nickname: "bob", IsCorrect: boolPtr(true)},
		{SessionID: 2, Nickname: "bob", IsCorrect: boolPtr(true)},
	}

	first := services.ComputeRanking(sessions, answers)
	second := services.ComputeRanking(sessions, answers)
	assert.Equal(t, first, second)
}
