package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edda.yaml")
	data := []byte("server:\n  http_addr: \":4000\"\ncache:\n  op_timeout: 50ms\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("EDDA_HTTP_ADDR", ":5000")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.HTTPAddr != ":5000" {
		t.Fatalf("HTTPAddr = %q, env should win", cfg.Server.HTTPAddr)
	}
	if cfg.Cache.OpTimeout != 50*time.Millisecond {
		t.Fatalf("OpTimeout = %v", cfg.Cache.OpTimeout)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("EDDA_JWT_SECRET", "s3cret")
	cmd := tokenCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--user", "7"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if parts := strings.Split(strings.TrimSpace(out.String()), "."); len(parts) != 3 {
		t.Fatalf("output is not a JWT: %q", out.String())
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if strings.TrimSpace(out.String()) != version {
		t.Fatalf("output = %q", out.String())
	}
}
