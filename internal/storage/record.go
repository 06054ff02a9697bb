package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/remindd/internal/model"
)

const fieldSep = "|"

// unixEpochTicks is the number of 100ns ticks between 0001-01-01 and the
// Unix epoch.
const (
	ticksPerSecond = 10_000_000
	unixEpochTicks = 62_135_596_800 * ticksPerSecond
)

// EncodeRecord renders one task as
// name|yyyy-MM-dd|completed|firstNotified|nextReminderTicks|id.
func EncodeRecord(t model.Task) string {
	ticks := ""
	if t.NextReminder != nil {
		ticks = strconv.FormatInt(TimeToTicks(*t.NextReminder), 10)
	}
	return strings.Join([]string{
		t.Name,
		t.DueDate.Format(model.DateLayout),
		flag(t.Completed),
		flag(t.FirstNotified),
		ticks,
		t.ID,
	}, fieldSep)
}

// DecodeRecord parses one line. Records written before the id column
// existed get a fresh id.
func DecodeRecord(line string) (model.Task, error) {
	parts := strings.Split(strings.TrimRight(line, "\r"), fieldSep)
	if len(parts) < 3 {
		return model.Task{}, fmt.Errorf("storage: record has %d fields, want at least 3", len(parts))
	}
	due, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(parts[1]), time.Local)
	if err != nil {
		return model.Task{}, fmt.Errorf("storage: parse due date: %w", err)
	}
	completed, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return model.Task{}, fmt.Errorf("storage: parse completed flag: %w", err)
	}

	task := model.Task{
		Name:      parts[0],
		DueDate:   due,
		Completed: completed == 1,
	}
	if len(parts) >= 4 {
		fn, err := strconv.Atoi(strings.TrimSpace(parts[3]))
		task.FirstNotified = err == nil && fn == 1
	}
	if len(parts) >= 5 {
		ticks, err := strconv.ParseInt(strings.TrimSpace(parts[4]), 10, 64)
		if err == nil && ticks > 0 {
			next := TicksToTime(ticks)
			task.NextReminder = &next
		}
	}
	if len(parts) >= 6 && strings.TrimSpace(parts[5]) != "" {
		task.ID = strings.TrimSpace(parts[5])
	} else {
		task.ID = uuid.NewString()
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, fmt.Errorf("storage: %w", err)
	}
	return task, nil
}

// TimeToTicks counts 100ns ticks since 0001-01-01 on the local wall clock.
func TimeToTicks(t time.Time) int64 {
	local := t.In(time.Local)
	wall := time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), time.UTC)
	return wall.Unix()*ticksPerSecond + int64(wall.Nanosecond()/100) + unixEpochTicks
}

func TicksToTime(ticks int64) time.Time {
	rel := ticks - unixEpochTicks
	sec := rel / ticksPerSecond
	rem := rel % ticksPerSecond
	if rem < 0 {
		sec--
		rem += ticksPerSecond
	}
	wall := time.Unix(sec, rem*100).UTC()
	return time.Date(wall.Year(), wall.Month(), wall.Day(),
		wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), time.Local)
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
