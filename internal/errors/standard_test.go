package errors

import (
	"strings"
	"testing"
)

func TestKeyExistsCategory(t *testing.T) {
	err := KeyExists(42)
	if err.Category != CategoryExists {
		t.Fatalf("Category = %v, want %v", err.Category, CategoryExists)
	}

	if err.Context["key"] != uint64(42) {
		t.Fatalf("Context[key] = %v, want 42", err.Context["key"])
	}
}

func TestKeyNotFoundCategory(t *testing.T) {
	err := KeyNotFound(7)
	if err.Category != CategoryNotFound {
		t.Fatalf("Category = %v, want %v", err.Category, CategoryNotFound)
	}
}

func TestOutOfMemoryCategory(t *testing.T) {
	err := OutOfMemory("arena exhausted")
	if err.Category != CategoryMemory {
		t.Fatalf("Category = %v, want %v", err.Category, CategoryMemory)
	}

	if err.Context["context"] != "arena exhausted" {
		t.Fatalf("Context[context] = %v, want %q", err.Context["context"], "arena exhausted")
	}
}

func TestErrorStringIncludesCategoryAndCode(t *testing.T) {
	err := KeyExists(1)
	msg := err.Error()

	want := "[" + string(CategoryExists) + ":KEY_EXISTS]"
	if !strings.HasPrefix(msg, want) {
		t.Fatalf("Error() = %q, want prefix %q", msg, want)
	}
}
