package pages

import (
	"errors"
	"testing"
)

func TestStore_Get(t *testing.T) {
	s := NewStore(map[int]string{1: "hello world", 2: ""})

	t.Run("returns page text", func(t *testing.T) {
		text, err := s.Get(1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "hello world" {
			t.Errorf("expected hello world, got %q", text)
		}
	})

	t.Run("empty text is valid", func(t *testing.T) {
		text, err := s.Get(2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "" {
			t.Errorf("expected empty text, got %q", text)
		}
	})

	t.Run("missing page fails with ErrPageNotFound", func(t *testing.T) {
		_, err := s.Get(99)
		if !errors.Is(err, ErrPageNotFound) {
			t.Errorf("expected ErrPageNotFound, got %v", err)
		}
	})
}

func TestStore_All_Ordered(t *testing.T) {
	s := NewStore(map[int]string{3: "c", 1: "a", 2: "b", 10: "j"})

	all := s.All()
	if len(all) != 4 {
		t.Fatalf("expected 4 pages, got %d", len(all))
	}
	want := []int{1, 2, 3, 10}
	for i, p := range all {
		if p.Number != want[i] {
			t.Errorf("position %d: expected page %d, got %d", i, want[i], p.Number)
		}
	}
}

func TestStore_DerivedCounts(t *testing.T) {
	s := NewStore(map[int]string{1: "two words", 2: "พิณ Phin"})

	p1, err := s.Page(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p1.WordCount != 2 {
		t.Errorf("expected 2 words, got %d", p1.WordCount)
	}
	if p1.CharCount != 9 {
		t.Errorf("expected 9 chars, got %d", p1.CharCount)
	}

	// Thai script counts runes, not bytes.
	p2, err := s.Page(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p2.CharCount != 8 {
		t.Errorf("expected 8 runes for mixed-script text, got %d", p2.CharCount)
	}
}

func TestStore_Count(t *testing.T) {
	if c := NewStore(nil).Count(); c != 0 {
		t.Errorf("expected 0, got %d", c)
	}
	if c := NewStore(map[int]string{1: "", 2: ""}).Count(); c != 2 {
		t.Errorf("expected 2, got %d", c)
	}
}
