package services

import (
	"testing"
)

func TestUOMOptions(t *testing.T) {
	if len(UOMOptions) == 0 {
		t.Fatal("UOMOptions should not be empty")
	}

	expected := map[string]bool{"pcs": true, "set": true, "lot": true, "hour": true}
	found := make(map[string]bool)
	for _, opt := range UOMOptions {
		if opt == "" {
			t.Error("UOMOptions contains empty string")
		}
		if found[opt] {
			t.Errorf("UOMOptions contains duplicate %q", opt)
		}
		found[opt] = true
	}
	for k := range expected {
		if !found[k] {
			t.Errorf("expected UOM option %q not found", k)
		}
	}
}
