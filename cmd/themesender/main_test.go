package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neiam/theme-sender/internal/infrastructure/config"
)

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"--version"}, &out); err != nil {
		t.Fatalf("run(--version) error = %v", err)
	}
	if !strings.HasPrefix(out.String(), serviceName+" "+version) {
		t.Errorf("output = %q, want prefix %q", out.String(), serviceName+" "+version)
	}
}

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"--help"}, &out); err != nil {
		t.Fatalf("run(--help) error = %v", err)
	}
	for _, flag := range []string{"--mqtt-host", "--interval", "--latitude", "--override-topic"} {
		if !strings.Contains(out.String(), flag) {
			t.Errorf("help output missing %s", flag)
		}
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	t.Setenv(config.ConfigPathEnv, "")

	tests := []struct {
		name        string
		args        []string
		wantInvalid bool
	}{
		{
			name: "unknown flag",
			args: []string{"--no-such-flag"},
		},
		{
			name: "missing config file",
			args: []string{"--config", filepath.Join(t.TempDir(), "missing.yaml")},
		},
		{
			name:        "unknown time zone",
			args:        []string{"--timezone", "Mars/Olympus_Mons"},
			wantInvalid: true,
		},
		{
			name:        "latitude out of range",
			args:        []string{"--latitude", "91", "--longitude", "0"},
			wantInvalid: true,
		},
		{
			name:        "zero interval",
			args:        []string{"--interval", "0"},
			wantInvalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(context.Background(), tt.args, &out)
			if err == nil {
				t.Fatal("run() error = nil, want error")
			}
			if got := errors.Is(err, config.ErrInvalidConfig); got != tt.wantInvalid {
				t.Errorf("errors.Is(err, ErrInvalidConfig) = %v, want %v (err = %v)", got, tt.wantInvalid, err)
			}
		})
	}
}
