package engine

import (
	"testing"

	"github.com/markoshka/markoshka/internal/catalogue"
)

func testCatalogue(t *testing.T) *catalogue.Catalogue {
	t.Helper()
	cat, err := catalogue.New([]catalogue.Category{
		{Name: "Поддержка", Phrases: []string{"Ты справишься!", "Дыши глубже"}},
		{Name: "Юмор", Phrases: []string{"Кофе уже в пути"}},
		{Name: "Цели", Phrases: []string{"Шаг за шагом", "Ещё чуть-чуть", "Почти у цели"}},
	})
	if err != nil {
		t.Fatalf("catalogue.New() error = %v", err)
	}
	return cat
}

func TestSequentialVisitsEveryPhraseOnce(t *testing.T) {
	cat := testCatalogue(t)
	seq := NewSequencer(cat)

	total := cat.TotalPhrases()
	seen := make(map[string]int)
	var order []string

	for i := 0; i < total; i++ {
		_, phrase := seq.NextPhrase(ModeSequential)
		seen[phrase]++
		order = append(order, phrase)
	}

	if len(seen) != total {
		t.Errorf("saw %d distinct phrases, want %d", len(seen), total)
	}
	for phrase, count := range seen {
		if count != 1 {
			t.Errorf("phrase %q seen %d times in one full cycle", phrase, count)
		}
	}

	// Catalogue-then-within-category order.
	want := []string{
		"Ты справишься!", "Дыши глубже",
		"Кофе уже в пути",
		"Шаг за шагом", "Ещё чуть-чуть", "Почти у цели",
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d = %q, want %q", i, order[i], want[i])
		}
	}

	// The cycle wraps back to the very first phrase.
	_, phrase := seq.NextPhrase(ModeSequential)
	if phrase != "Ты справишься!" {
		t.Errorf("call %d = %q, want wraparound to %q", total+1, phrase, "Ты справишься!")
	}
}

func TestRandomDoesNotMutateCursor(t *testing.T) {
	cat := testCatalogue(t)
	seq := NewSequencer(cat)

	// Deterministic picks: always the last valid index.
	seq.pick = func(n int) int { return n - 1 }

	gotCat, phrase := seq.NextPhrase(ModeRandom)
	if gotCat.Name != "Цели" || phrase != "Почти у цели" {
		t.Errorf("random pick = (%q, %q), want last category and phrase", gotCat.Name, phrase)
	}

	// The sequential cursor must be untouched.
	gotCat, phrase = seq.NextPhrase(ModeSequential)
	if gotCat.Name != "Поддержка" || phrase != "Ты справишься!" {
		t.Errorf("after random, sequential = (%q, %q), want start of catalogue", gotCat.Name, phrase)
	}
}

func TestCategorySequenceContinuesPastPinnedCategory(t *testing.T) {
	cat := testCatalogue(t)
	seq := NewSequencer(cat)

	// Pin the second category ("Юмор", one phrase).
	pinned := seq.JumpToNextCategory()
	if pinned.Name != "Юмор" {
		t.Fatalf("pinned category = %q, want %q", pinned.Name, "Юмор")
	}

	gotCat, phrase := seq.NextPhrase(ModeCategorySequence)
	if gotCat.Name != "Юмор" || phrase != "Кофе уже в пути" {
		t.Fatalf("first = (%q, %q), want the pinned category", gotCat.Name, phrase)
	}

	// Pinned category exhausted: continue into the next one in catalogue
	// order instead of looping.
	gotCat, phrase = seq.NextPhrase(ModeCategorySequence)
	if gotCat.Name != "Цели" || phrase != "Шаг за шагом" {
		t.Errorf("second = (%q, %q), want start of the next category", gotCat.Name, phrase)
	}
}

func TestJumpToNextCategoryWrapsAround(t *testing.T) {
	cat := testCatalogue(t)
	seq := NewSequencer(cat)

	names := []string{"Юмор", "Цели", "Поддержка", "Юмор"}
	for i, want := range names {
		got := seq.JumpToNextCategory()
		if got.Name != want {
			t.Errorf("jump %d = %q, want %q", i+1, got.Name, want)
		}
	}
}
