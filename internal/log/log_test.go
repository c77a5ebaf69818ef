// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package log

import (
	"path/filepath"
	"testing"

	"github.com/btcsuite/btclog"
)

// TestParseAndSetDebugLevels ensures the accepted debug level forms set the
// expected subsystem levels and that invalid forms are rejected.
func TestParseAndSetDebugLevels(t *testing.T) {
	defer SetLogLevels("info")

	tests := []struct {
		name    string
		in      string
		wantErr bool
		want    map[string]btclog.Level
	}{
		{
			name: "all subsystems",
			in:   "debug",
			want: map[string]btclog.Level{
				"KVDB": btclog.LevelDebug,
				"KVTL": btclog.LevelDebug,
			},
		},
		{
			name: "per subsystem",
			in:   "KVDB=trace,KVTL=warn",
			want: map[string]btclog.Level{
				"KVDB": btclog.LevelTrace,
				"KVTL": btclog.LevelWarn,
			},
		},
		{name: "bad level", in: "loud", wantErr: true},
		{name: "bad pair", in: "KVDB=debug,KVTL", wantErr: true},
		{name: "bad subsystem", in: "BTCD=debug", wantErr: true},
		{name: "bad pair level", in: "KVDB=loud", wantErr: true},
	}

	for _, test := range tests {
		err := ParseAndSetDebugLevels(test.in)
		if test.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		for subsys, want := range test.want {
			got := SubsystemLoggers[subsys].Level()
			if got != want {
				t.Errorf("%s: %s level got %v, want %v",
					test.name, subsys, got, want)
			}
		}
	}
}

// TestSupportedSubsystems ensures the subsystems are reported sorted.
func TestSupportedSubsystems(t *testing.T) {
	got := SupportedSubsystems()
	if len(got) != 2 || got[0] != "KVDB" || got[1] != "KVTL" {
		t.Fatalf("unexpected subsystems %v", got)
	}
}

// TestInitLogRotator ensures the rotator creates its directory.
func TestInitLogRotator(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "kvtool.log")
	if err := InitLogRotator(logFile); err != nil {
		t.Fatalf("InitLogRotator: %v", err)
	}
	defer func() {
		LogRotator.Close()
		LogRotator = nil
	}()

	KvtlLog.Info("rotator initialized")
}
