package utils

import "testing"

func TestGenerateRandomKey(t *testing.T) {
	first, err := GenerateRandomKey(32)
	if err != nil {
		t.Fatalf("GenerateRandomKey() failed: %v", err)
	}
	if first == "" {
		t.Fatal("GenerateRandomKey() returned empty string")
	}

	second, err := GenerateRandomKey(32)
	if err != nil {
		t.Fatalf("GenerateRandomKey() failed: %v", err)
	}
	if first == second {
		t.Error("two generated keys are identical")
	}
}

func TestSecureCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "equal", a: "state-token", b: "state-token", want: true},
		{name: "different", a: "state-token", b: "other-token", want: false},
		{name: "different length", a: "state", b: "state-token", want: false},
		{name: "both empty", a: "", b: "", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SecureCompare(tt.a, tt.b); got != tt.want {
				t.Errorf("SecureCompare(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
