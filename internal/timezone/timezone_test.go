package timezone

import "testing"

func TestLoad(t *testing.T) {
	loc, err := Load("")
	if err != nil || loc.String() != DefaultTimezone {
		t.Fatalf("Load(\"\") = %v, %v", loc, err)
	}
	if _, err := Load("Nowhere/Land"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
	if !IsValid("UTC") || IsValid("") {
		t.Fatal("IsValid mismatch")
	}
}
