package domain

import "time"

// DailyProblemRecord is the problem of the day for one day bucket. It is
// written once per DayKey and never rewritten for that key.
type DailyProblemRecord struct {
	DayKey string `gorm:"column:day_key;primaryKey;size:10" json:"dayKey"`

	Link       string `gorm:"column:link" json:"link"`
	Title      string `gorm:"column:title" json:"title"`
	Difficulty string `gorm:"column:difficulty" json:"difficulty"`
	Date       string `gorm:"column:date" json:"date"`

	QuestionID         string `gorm:"column:question_id" json:"questionId,omitempty"`
	QuestionFrontendID string `gorm:"column:question_frontend_id" json:"questionFrontendId,omitempty"`

	FetchedAt time.Time `gorm:"column:fetched_at;not null" json:"fetchedAt"`
}

func (DailyProblemRecord) TableName() string { return "daily_problems" }
