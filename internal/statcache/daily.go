package statcache

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/yungbote/leettrack-backend/internal/domain"
)

type dailyPayload struct {
	QuestionLink       optText `json:"questionLink"`
	QuestionTitle      optText `json:"questionTitle"`
	QuestionID         optText `json:"questionId"`
	QuestionFrontendID optText `json:"questionFrontendId"`
	Difficulty         optText `json:"difficulty"`
	Date               optText `json:"date"`
}

var ErrInvalidDailyPayload = errors.New("statcache: invalid daily problem payload")

// ParseDailyProblem reads the upstream daily payload. DayKey and FetchedAt are
// left for the caller. A payload with neither link nor title is rejected.
func ParseDailyProblem(raw json.RawMessage) (*domain.DailyProblemRecord, error) {
	var p dailyPayload
	if !isObject(raw) || json.Unmarshal(raw, &p) != nil {
		return nil, ErrInvalidDailyPayload
	}
	rec := &domain.DailyProblemRecord{
		Link:               strings.TrimSpace(p.QuestionLink.v),
		Title:              strings.TrimSpace(p.QuestionTitle.v),
		Difficulty:         strings.TrimSpace(p.Difficulty.v),
		Date:               strings.TrimSpace(p.Date.v),
		QuestionID:         strings.TrimSpace(p.QuestionID.v),
		QuestionFrontendID: strings.TrimSpace(p.QuestionFrontendID.v),
	}
	if rec.Link == "" && rec.Title == "" {
		return nil, ErrInvalidDailyPayload
	}
	return rec, nil
}
