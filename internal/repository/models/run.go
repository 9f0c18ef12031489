package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSlice stores a string list as a JSON array column.
type StringSlice []string

// Value writes nil as an empty JSON array.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan reads NULL, "" and "null" as an empty slice.
func (s *StringSlice) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = StringSlice{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("StringSlice Scan: unsupported type %T", value)
	}

	if len(raw) == 0 || string(raw) == "null" {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

// QuizRun is a row of quiz_runs.
type QuizRun struct {
	ID              string      `db:"id"`
	SessionID       string      `db:"session_id"`
	Topic           string      `db:"topic"`
	Difficulty      string      `db:"difficulty"`
	QuizCount       int         `db:"quiz_count"`
	FocusCategories StringSlice `db:"focus_categories"`
	ScorePercent    float64     `db:"score_percent"`
	CreatedAt       time.Time   `db:"created_at"`
}

// QuizRunCategory is a row of quiz_run_categories.
type QuizRunCategory struct {
	RunID    string `db:"run_id"`
	Position int    `db:"position"`
	Category string `db:"category"`
	Total    int    `db:"total"`
	Correct  int    `db:"correct"`
}
