package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chrissnell/sleepchart/internal/summary"
	"github.com/chrissnell/sleepchart/internal/types"
)

// ChartRun is one stored pass over an input file
type ChartRun struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid;column:id"`
	Source    string    `gorm:"column:source;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	Days      int       `gorm:"column:days;not null"`

	Rows      []DayRowRecord  `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
	Intervals []SleepInterval `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for ChartRun
func (ChartRun) TableName() string {
	return "chart_runs"
}

// DayRowRecord is one sealed day row in compact slot form
type DayRowRecord struct {
	RunID          uuid.UUID `gorm:"primaryKey;type:uuid;column:run_id"`
	DayIndex       int       `gorm:"primaryKey;column:day_index;autoIncrement:false"`
	Date           time.Time `gorm:"column:date;type:date;not null"`
	Slots          string    `gorm:"column:slots;type:char(96);not null"`
	AsleepQuarters int       `gorm:"column:asleep_quarters;not null"`
}

// TableName specifies the table name for DayRowRecord
func (DayRowRecord) TableName() string {
	return "day_rows"
}

// Row converts the record back into a sealed row.
func (r DayRowRecord) Row() (types.Row, error) {
	slots, err := types.ParseCompact(r.Slots)
	if err != nil {
		return types.Row{}, fmt.Errorf("day %d: %w", r.DayIndex, err)
	}
	return types.Row{Date: r.Date.UTC(), Slots: slots}, nil
}

// SleepInterval is one merged asleep run
type SleepInterval struct {
	ID       uint      `gorm:"primaryKey;column:id"`
	RunID    uuid.UUID `gorm:"type:uuid;column:run_id;index;not null"`
	Start    time.Time `gorm:"column:start;not null"`
	Quarters int       `gorm:"column:quarters;not null"`
}

// TableName specifies the table name for SleepInterval
func (SleepInterval) TableName() string {
	return "sleep_intervals"
}

// Models lists every table managed by AutoMigrate, parents first.
func Models() []interface{} {
	return []interface{}{&ChartRun{}, &DayRowRecord{}, &SleepInterval{}}
}

// NewChartRun builds the record tree for a run.
func NewChartRun(id uuid.UUID, source string, createdAt time.Time, rows []types.Row, intervals []summary.Interval) *ChartRun {
	cr := &ChartRun{
		ID:        id,
		Source:    source,
		CreatedAt: createdAt,
		Days:      len(rows),
		Rows:      make([]DayRowRecord, len(rows)),
		Intervals: make([]SleepInterval, len(intervals)),
	}
	for i := range rows {
		cr.Rows[i] = DayRowRecord{
			RunID:          id,
			DayIndex:       i,
			Date:           rows[i].Date,
			Slots:          rows[i].Slots.Compact(),
			AsleepQuarters: rows[i].Slots.Count(types.Asleep),
		}
	}
	for i, iv := range intervals {
		cr.Intervals[i] = SleepInterval{RunID: id, Start: iv.Start, Quarters: iv.Quarters}
	}
	return cr
}
