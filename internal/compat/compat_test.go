package compat

import "testing"

func TestRequireAPIVersionDefaultConstraint(t *testing.T) {
	if err := RequireAPIVersion("1.0.0", ""); err != nil {
		t.Fatalf("RequireAPIVersion(1.0.0) = %v, want nil", err)
	}

	if err := RequireAPIVersion("1.9.4", ""); err != nil {
		t.Fatalf("RequireAPIVersion(1.9.4) = %v, want nil", err)
	}

	if err := RequireAPIVersion("2.0.0", ""); err == nil {
		t.Fatal("RequireAPIVersion(2.0.0) = nil, want error (outside < 2.0.0)")
	}

	if err := RequireAPIVersion("0.9.0", ""); err == nil {
		t.Fatal("RequireAPIVersion(0.9.0) = nil, want error (below >= 1.0.0)")
	}
}

func TestRequireAPIVersionExplicitConstraint(t *testing.T) {
	if err := RequireAPIVersion("3.2.1", ">= 3.0.0, < 4.0.0"); err != nil {
		t.Fatalf("RequireAPIVersion(3.2.1) = %v, want nil", err)
	}

	if err := RequireAPIVersion("3.2.1", "not a constraint"); err == nil {
		t.Fatal("RequireAPIVersion with malformed constraint = nil, want error")
	}
}

func TestRequireAPIVersionMalformedDeclared(t *testing.T) {
	if err := RequireAPIVersion("not-a-version", ""); err == nil {
		t.Fatal("RequireAPIVersion(not-a-version) = nil, want error")
	}
}
