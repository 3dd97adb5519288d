package statcache

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/yungbote/leettrack-backend/internal/domain"
)

// Upstream payloads are loosely typed: numbers sometimes arrive as strings and
// totalSubmissionNum changes shape between versions. The field types below
// never fail to unmarshal; a value they cannot read is left unset so one bad
// field does not discard the rest of the document.

type optInt struct {
	v   int64
	set bool
}

func (o *optInt) UnmarshalJSON(raw []byte) error {
	o.v, o.set = decodeInt64(raw)
	return nil
}

func (o optInt) Int() *int {
	if !o.set || o.v > math.MaxInt32 || o.v < math.MinInt32 {
		return nil
	}
	n := int(o.v)
	return &n
}

func (o optInt) Int64() *int64 {
	if !o.set {
		return nil
	}
	n := o.v
	return &n
}

type optText struct {
	v   string
	set bool
}

func (o *optText) UnmarshalJSON(raw []byte) error {
	o.v, o.set = decodeText(raw)
	return nil
}

func (o optText) Ptr() *string {
	if !o.set {
		return nil
	}
	s := o.v
	return &s
}

// or returns o when set, else alt.
func (o optText) or(alt optText) optText {
	if o.set {
		return o
	}
	return alt
}

type breakdownRow struct {
	Difficulty  optText `json:"difficulty"`
	Count       optInt  `json:"count"`
	Submissions optInt  `json:"submissions"`
}

// breakdown is a per-difficulty list; rows without a difficulty are skipped.
type breakdown struct {
	rows []domain.DifficultyCount
	set  bool
}

func (b *breakdown) UnmarshalJSON(raw []byte) error {
	items, ok := decodeArray(raw)
	if !ok {
		return nil
	}
	b.set = true
	b.rows = make([]domain.DifficultyCount, 0, len(items))
	for _, item := range items {
		var row breakdownRow
		if err := json.Unmarshal(item, &row); err != nil {
			continue
		}
		label := strings.TrimSpace(row.Difficulty.v)
		if !row.Difficulty.set || label == "" {
			continue
		}
		d, known := domain.ParseDifficulty(label)
		if !known {
			d = domain.Difficulty(label)
		}
		b.rows = append(b.rows, domain.DifficultyCount{
			Difficulty:  d,
			Count:       row.Count.Int(),
			Submissions: row.Submissions.Int(),
		})
	}
	return nil
}

// submissionTotal is either an aggregate number or a breakdown list.
type submissionTotal struct {
	aggregate optInt
	breakdown breakdown
}

func (s *submissionTotal) UnmarshalJSON(raw []byte) error {
	if isArray(raw) {
		return s.breakdown.UnmarshalJSON(raw)
	}
	return s.aggregate.UnmarshalJSON(raw)
}

type solvedPayload struct {
	SolvedProblem      optInt          `json:"solvedProblem"`
	EasySolved         optInt          `json:"easySolved"`
	MediumSolved       optInt          `json:"mediumSolved"`
	HardSolved         optInt          `json:"hardSolved"`
	TotalSubmissionNum submissionTotal `json:"totalSubmissionNum"`
	AcSubmissionNum    breakdown       `json:"acSubmissionNum"`
}

func decodeSolved(raw json.RawMessage) solvedPayload {
	var p solvedPayload
	if !isObject(raw) || json.Unmarshal(raw, &p) != nil {
		return solvedPayload{}
	}
	return p
}

type recentItem struct {
	Title         optText `json:"title"`
	TitleSlug     optText `json:"titleSlug"`
	StatusDisplay optText `json:"statusDisplay"`
	Status        optText `json:"status"`
	Lang          optText `json:"lang"`
	Language      optText `json:"language"`
	Timestamp     optInt  `json:"timestamp"`
}

type recentList struct {
	items []domain.RecentSubmission
	set   bool
}

func (l *recentList) UnmarshalJSON(raw []byte) error {
	items, ok := decodeArray(raw)
	if !ok {
		return nil
	}
	l.set = true
	l.items = make([]domain.RecentSubmission, 0, len(items))
	for _, item := range items {
		var it recentItem
		if err := json.Unmarshal(item, &it); err != nil {
			continue
		}
		if !it.Title.set || strings.TrimSpace(it.Title.v) == "" {
			continue
		}
		l.items = append(l.items, domain.RecentSubmission{
			Title:            it.Title.v,
			TitleSlug:        it.TitleSlug.Ptr(),
			Status:           it.StatusDisplay.or(it.Status).Ptr(),
			Language:         it.Lang.or(it.Language).Ptr(),
			TimestampSeconds: it.Timestamp.Int64(),
		})
	}
	return nil
}

type recentEnvelope struct {
	Submission  recentList `json:"submission"`
	Submissions recentList `json:"submissions"`
}

// decodeRecent accepts {submission:[...]}, {submissions:[...]} or a bare list.
// ok is false when the payload has none of those shapes.
func decodeRecent(raw json.RawMessage) ([]domain.RecentSubmission, bool) {
	if isArray(raw) {
		var l recentList
		_ = l.UnmarshalJSON(raw)
		return l.items, l.set
	}
	if !isObject(raw) {
		return nil, false
	}
	var env recentEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false
	}
	switch {
	case env.Submission.set:
		return env.Submission.items, true
	case env.Submissions.set:
		return env.Submissions.items, true
	default:
		return nil, false
	}
}

func decodeArray(raw []byte) ([]json.RawMessage, bool) {
	if !isArray(raw) {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func isNull(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func isArray(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// decodeInt64 accepts a JSON integer or a string holding one.
func decodeInt64(raw []byte) (int64, bool) {
	if isNull(raw) {
		return 0, false
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// decodeText accepts a JSON string, or a number rendered as its literal.
func decodeText(raw []byte) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}
