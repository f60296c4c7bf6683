package cache

import (
	"strings"
	"testing"
	"time"
)

// TestRedisConfig_Resolve verifies environment expansion and timeout
// defaults.
func TestRedisConfig_Resolve(t *testing.T) {
	t.Setenv("TEST_REDIS_HOST", "redis.internal")
	t.Setenv("TEST_REDIS_PASSWORD", "s3cret")

	cfg := RedisConfig{
		Addr:     "${TEST_REDIS_HOST}:6379",
		Password: "${TEST_REDIS_PASSWORD}",
	}

	resolved, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Addr != "redis.internal:6379" {
		t.Errorf("Addr = %q, want redis.internal:6379", resolved.Addr)
	}
	if resolved.Password != "s3cret" {
		t.Errorf("Password = %q, want s3cret", resolved.Password)
	}
	if resolved.DialTimeout != 5*time.Second {
		t.Errorf("DialTimeout = %v, want 5s", resolved.DialTimeout)
	}
	if resolved.ReadTimeout != 2*time.Second {
		t.Errorf("ReadTimeout = %v, want 2s", resolved.ReadTimeout)
	}
	if resolved.WriteTimeout != 2*time.Second {
		t.Errorf("WriteTimeout = %v, want 2s", resolved.WriteTimeout)
	}
}

// TestRedisConfig_ResolveMissingVar verifies a reference to an absent
// variable fails loudly.
func TestRedisConfig_ResolveMissingVar(t *testing.T) {
	cfg := RedisConfig{Addr: "${DEFINITELY_NOT_SET_ANYWHERE}:6379"}

	_, err := cfg.Resolve()
	if err == nil {
		t.Fatal("expected error for missing environment variable")
	}
	if !strings.Contains(err.Error(), "DEFINITELY_NOT_SET_ANYWHERE") {
		t.Errorf("error should name the missing variable: %v", err)
	}
}

// TestRedisConfig_ResolveKeepsExplicitTimeouts verifies defaults do
// not override configured values.
func TestRedisConfig_ResolveKeepsExplicitTimeouts(t *testing.T) {
	cfg := RedisConfig{
		Addr:        "localhost:6379",
		DialTimeout: 10 * time.Second,
		ReadTimeout: time.Second,
	}

	resolved, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.DialTimeout != 10*time.Second {
		t.Errorf("DialTimeout = %v, want 10s", resolved.DialTimeout)
	}
	if resolved.ReadTimeout != time.Second {
		t.Errorf("ReadTimeout = %v, want 1s", resolved.ReadTimeout)
	}
}

// TestExpandEnvStrict covers the expansion edge cases.
func TestExpandEnvStrict(t *testing.T) {
	t.Setenv("TEST_EXPAND_VAR", "value")

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain string", "no refs here", "no refs here", false},
		{"braced reference", "${TEST_EXPAND_VAR}", "value", false},
		{"embedded reference", "pre-${TEST_EXPAND_VAR}-post", "pre-value-post", false},
		{"escaped dollar", "cost: $$5", "cost: $5", false},
		{"escaped braced form stays literal", "$${NOT_A_REF}", "${NOT_A_REF}", false},
		{"missing variable", "${TEST_EXPAND_MISSING}", "", true},
		{"empty string", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandEnvStrict(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expandEnvStrict(%q): expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("expandEnvStrict(%q): unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("expandEnvStrict(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestExpandEnvStrict_MultipleMissing verifies every missing variable
// is reported, sorted.
func TestExpandEnvStrict_MultipleMissing(t *testing.T) {
	_, err := expandEnvStrict("${ZZZ_MISSING}${AAA_MISSING}")
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "AAA_MISSING, ZZZ_MISSING") {
		t.Errorf("expected sorted variable list in error, got %q", msg)
	}
}
