package cache

import (
	"strings"
	"testing"
)

func TestKeyDeterministic(t *testing.T) {
	a := Key("retrieve", "return policy", "0.5", "10")
	b := Key("retrieve", "return policy", "0.5", "10")
	if a != b {
		t.Errorf("same inputs produced different keys: %q vs %q", a, b)
	}
}

func TestKeyDistinguishesInputs(t *testing.T) {
	base := Key("retrieve", "return policy", "0.5", "10")
	variants := []string{
		Key("retrieve", "shipping policy", "0.5", "10"),
		Key("retrieve", "return policy", "0.7", "10"),
		Key("retrieve", "return policy", "0.5", "5"),
		Key("search", "return policy", "0.5", "10"),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base key", i)
		}
	}
}

func TestKeyPrefixedByOperation(t *testing.T) {
	if !strings.HasPrefix(Key("retrieve", "x"), "retrieve:") {
		t.Errorf("key missing operation prefix: %q", Key("retrieve", "x"))
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  Return   Policy ", "return policy"},
		{"RETURN\tpolicy\n", "return policy"},
		{"return policy", "return policy"},
	}
	for _, tt := range tests {
		if got := NormalizeQuery(tt.in); got != tt.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
