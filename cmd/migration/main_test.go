package main

import (
	"errors"
	"io"
	"testing"

	"github.com/riskibarqy/club-tournaments/internal/platform/logging"
)

func TestRun_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"sideways"}} {
		if err := run(args, io.Discard, logging.NewNop()); !errors.Is(err, errUsage) {
			t.Fatalf("run(%v) = %v, want usage error", args, err)
		}
	}
}

func TestRun_RequiresDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	if err := run([]string{"up"}, io.Discard, logging.NewNop()); err == nil || errors.Is(err, errUsage) {
		t.Fatalf("expected DB_URL error, got %v", err)
	}
}

func TestParseSteps(t *testing.T) {
	tests := []struct {
		args    []string
		want    int
		wantErr bool
	}{
		{args: nil, want: 1},
		{args: []string{" 3 "}, want: 3},
		{args: []string{"0"}, wantErr: true},
		{args: []string{"x"}, wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseSteps(tt.args)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("parseSteps(%v) = %d, %v", tt.args, got, err)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	if v, err := parseVersion("1771776034"); err != nil || v != 1771776034 {
		t.Fatalf("parseVersion: %d %v", v, err)
	}
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected negative version error")
	}
	if v, err := parseTarget("1771862434"); err != nil || v != 1771862434 {
		t.Fatalf("parseTarget: %d %v", v, err)
	}
	if _, err := parseTarget("latest"); err == nil {
		t.Fatalf("expected invalid target error")
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "true")
	if !envBool("DB_DISABLE_PREPARED_BINARY_RESULT") {
		t.Fatalf("expected true")
	}
	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "nope")
	if envBool("DB_DISABLE_PREPARED_BINARY_RESULT") {
		t.Fatalf("expected false for unparsable value")
	}
}
