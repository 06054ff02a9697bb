package storage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/remindd/internal/model"
)

func TestTicksMatchReferenceValue(t *testing.T) {
	// 2024-01-01T00:00:00 is 638396640000000000 ticks after 0001-01-01.
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	if got := TimeToTicks(at); got != 638396640000000000 {
		t.Fatalf("unexpected ticks: %d", got)
	}
	back := TicksToTime(638396640000000000)
	if !back.Equal(at) {
		t.Fatalf("unexpected time from ticks: %v", back)
	}
}

func TestTicksKeepSubSecondPrecision(t *testing.T) {
	at := time.Date(2026, 2, 9, 15, 4, 5, 123456700, time.Local)
	if got := TicksToTime(TimeToTicks(at)); !got.Equal(at) {
		t.Fatalf("round trip lost precision: %v vs %v", got, at)
	}
}

func TestEncodeRecordPositionalFields(t *testing.T) {
	task := model.Task{
		ID:      "id-1",
		Name:    "Pay rent",
		DueDate: time.Date(2026, 2, 9, 0, 0, 0, 0, time.Local),
	}
	got := EncodeRecord(task)
	if got != "Pay rent|2026-02-09|0|0||id-1" {
		t.Fatalf("unexpected record: %q", got)
	}

	next := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	task.FirstNotified = true
	task.NextReminder = &next
	got = EncodeRecord(task)
	if got != "Pay rent|2026-02-09|0|1|638396640000000000|id-1" {
		t.Fatalf("unexpected record: %q", got)
	}
}

func TestDecodeLegacyFiveFieldRecord(t *testing.T) {
	task, err := DecodeRecord("Call mom|2026-02-09|0|1|638396640000000000\r")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if task.ID == "" {
		t.Fatal("expected generated id for legacy record")
	}
	if !task.FirstNotified || task.NextReminder == nil {
		t.Fatalf("unexpected reminder state: %+v", task)
	}
	if task.Name != "Call mom" {
		t.Fatalf("unexpected name: %q", task.Name)
	}
}

func TestDecodeLenientOptionalFields(t *testing.T) {
	task, err := DecodeRecord("Bills|2026-02-09|0|x|-5")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if task.FirstNotified {
		t.Fatal("unparsable first-notified flag must decode as false")
	}
	if task.NextReminder != nil {
		t.Fatal("non-positive ticks must decode as no reminder")
	}

	task, err = DecodeRecord("Short|2026-02-09|0")
	if err != nil {
		t.Fatalf("decode three fields: %v", err)
	}
	if task.FirstNotified || task.NextReminder != nil {
		t.Fatalf("unexpected defaults: %+v", task)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	bad := []string{
		"only-name",
		"name|2026-02-09",
		"name|not-a-date|0|0|",
		"name|2026-02-09|yes|0|",
		"|2026-02-09|0|0|",
	}
	for _, line := range bad {
		if _, err := DecodeRecord(line); err == nil {
			t.Fatalf("expected error for %q", line)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	next := time.Date(2026, 2, 9, 21, 30, 15, 0, time.Local)
	in := model.Task{
		ID:            "abc",
		Name:          "Renew passport",
		DueDate:       time.Date(2026, 2, 9, 0, 0, 0, 0, time.Local),
		FirstNotified: true,
		NextReminder:  &next,
	}
	out, err := DecodeRecord(EncodeRecord(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != in.ID || out.Name != in.Name || !out.DueDate.Equal(in.DueDate) ||
		out.FirstNotified != in.FirstNotified || !out.NextReminder.Equal(*in.NextReminder) {
		t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
	}
	if strings.Count(EncodeRecord(in), fieldSep) != 5 {
		t.Fatal("expected six positional fields")
	}
}

func TestDecodeValidatesStoredTask(t *testing.T) {
	_, err := DecodeRecord("   |2026-02-09|0|0||id-1")
	if !errors.Is(err, model.ErrEmptyName) {
		t.Fatalf("expected empty name error, got %v", err)
	}

	task, err := DecodeRecord("Old|2020-01-01|1|1||id-2")
	if err != nil {
		t.Fatalf("past completed record must decode: %v", err)
	}
	if !task.Completed || task.ID != "id-2" {
		t.Fatalf("unexpected task: %+v", task)
	}
}
