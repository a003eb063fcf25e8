package engine

import (
	"math/rand/v2"

	"github.com/markoshka/markoshka/internal/catalogue"
)

// Sequencer is the stateful cursor over the catalogue. Both indices are
// always valid for the catalogue; they move only through NextPhrase and
// JumpToNextCategory. The sequencer is owned by the main loop and is not
// safe for concurrent use.
type Sequencer struct {
	catalogue     *catalogue.Catalogue
	categoryIndex int
	phraseIndex   int

	// pick returns a uniform value in [0, n). Replaceable in tests.
	pick func(n int) int
}

// NewSequencer builds a sequencer positioned at the first phrase of the
// first category.
func NewSequencer(cat *catalogue.Catalogue) *Sequencer {
	return &Sequencer{
		catalogue: cat,
		pick:      rand.IntN,
	}
}

// NextPhrase returns the phrase to show for the given mode.
//
// Sequential and CategorySequence share the advance rule: return the phrase
// at the cursor, bump the phrase index, and on wraparound move to the next
// category in catalogue order. Every phrase is visited exactly once before
// any repeats. CategorySequence differs only in where the cursor starts
// (wherever JumpToNextCategory pinned it).
//
// Random picks independently and mutates nothing. Weather never reaches the
// sequencer; the main loop branches before calling here.
func (s *Sequencer) NextPhrase(mode Mode) (catalogue.Category, string) {
	if mode == ModeRandom {
		cat := s.catalogue.Category(s.pick(s.catalogue.Len()))
		return cat, cat.Phrases[s.pick(len(cat.Phrases))]
	}
	return s.advance()
}

func (s *Sequencer) advance() (catalogue.Category, string) {
	cat := s.catalogue.Category(s.categoryIndex)
	phrase := cat.Phrases[s.phraseIndex]

	s.phraseIndex++
	if s.phraseIndex >= len(cat.Phrases) {
		s.phraseIndex = 0
		s.categoryIndex = (s.categoryIndex + 1) % s.catalogue.Len()
	}
	return cat, phrase
}

// JumpToNextCategory pins the cursor to the start of the next category in
// catalogue order and returns that category. Used by the long-press
// category cycle.
func (s *Sequencer) JumpToNextCategory() catalogue.Category {
	s.categoryIndex = (s.categoryIndex + 1) % s.catalogue.Len()
	s.phraseIndex = 0
	return s.catalogue.Category(s.categoryIndex)
}
