package enums

import "testing"

func TestParseProductFactory(t *testing.T) {
	got, err := ParseProductFactory("DELL")
	if err != nil || got != ProductFactoryDell {
		t.Fatalf("expected DELL, got %q err=%v", got, err)
	}
	if _, err := ParseProductFactory("dell"); err == nil {
		t.Fatal("factory tokens are case sensitive")
	}
	if ProductFactoryApple.Label() != "Apple (MacBook)" {
		t.Fatalf("unexpected label %q", ProductFactoryApple.Label())
	}
	if len(ProductFactories()) != 6 {
		t.Fatalf("expected 6 factories, got %d", len(ProductFactories()))
	}
}

func TestParseProductTarget(t *testing.T) {
	got, err := ParseProductTarget("MONG-NHE")
	if err != nil || got != ProductTargetThinLight {
		t.Fatalf("expected MONG-NHE, got %q err=%v", got, err)
	}
	if _, err := ParseProductTarget("UNKNOWN"); err == nil {
		t.Fatal("expected error for unknown target")
	}
	if ProductTarget("UNKNOWN").Label() != "UNKNOWN" {
		t.Fatal("unknown targets should label as themselves")
	}
}

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole(" admin ")
	if err != nil || role != UserRoleAdmin {
		t.Fatalf("expected ADMIN, got %q err=%v", role, err)
	}
	if _, err := ParseUserRole("owner"); err == nil {
		t.Fatal("expected invalid role error")
	}
}
