package commands

import (
	"errors"
	"testing"
	"time"
)

var now = time.Date(2026, 2, 9, 10, 0, 0, 0, time.Local)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent 2026-02-10", TypeAdd},
		{"new pay rent tomorrow", TypeAdd},
		{"edit 2 pay rent today", TypeEdit},
		{"done #1", TypeDone},
		{"complete pay rent", TypeDone},
		{"rm 3", TypeRemove},
		{"delete pay rent", TypeRemove},
		{"ls", TypeList},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in, now)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddArguments(t *testing.T) {
	cmd, err := Parse("add  pay the   rent tomorrow", now)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Name != "pay the rent" {
		t.Fatalf("unexpected name: %q", cmd.Add.Name)
	}
	want := time.Date(2026, 2, 10, 0, 0, 0, 0, time.Local)
	if !cmd.Add.Due.Equal(want) {
		t.Fatalf("unexpected due: %v", cmd.Add.Due)
	}
}

func TestParseEditArguments(t *testing.T) {
	cmd, err := Parse("edit 2 call mom 2026-03-01", now)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Edit.Target.Index != 2 || cmd.Edit.Name != "call mom" {
		t.Fatalf("unexpected edit args: %+v", cmd.Edit)
	}
	if cmd.Edit.Due.Month() != time.March || cmd.Edit.Due.Day() != 1 {
		t.Fatalf("unexpected due: %v", cmd.Edit.Due)
	}
}

func TestParseRef(t *testing.T) {
	cases := []struct {
		in   string
		want Ref
	}{
		{"done 4", Ref{Index: 4}},
		{"done #7", Ref{Index: 7}},
		{"done pay rent", Ref{Name: "pay rent"}},
		{"done 4th floor", Ref{Name: "4th floor"}},
		{"done 0", Ref{Name: "0"}},
	}
	for _, tc := range cases {
		cmd, err := Parse(tc.in, now)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Done.Target != tc.want {
			t.Fatalf("parse %q target = %+v, want %+v", tc.in, cmd.Done.Target, tc.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		in   string
		code ErrorCode
	}{
		{"   ", ErrCodeEmptyInput},
		{"/unknown do x", ErrCodeUnknownCommand},
		{"add tomorrow", ErrCodeInvalidArgument},
		{"add pay rent 10/02/2026", ErrCodeInvalidArgument},
		{"edit 1 2026-02-10", ErrCodeInvalidArgument},
		{"done", ErrCodeInvalidArgument},
	}
	for _, tc := range cases {
		_, err := Parse(tc.in, now)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != tc.code {
			t.Fatalf("parse %q: expected %s, got %v", tc.in, tc.code, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs today", now)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Name != "write docs" {
				t.Fatalf("unexpected name: %q", a.Name)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("unexpected result: called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("rm 1", now)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected handler missing error, got %v", err)
	}
}
