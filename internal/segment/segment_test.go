package segment

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ppiankov/mucprep/internal/cache"
	"github.com/ppiankov/mucprep/internal/model"
)

func TestRuleSplit(t *testing.T) {
	got := Rule{}.Split("the bomb exploded in bogota. bogota was damaged.  really? yes")
	want := []string{"the bomb exploded in bogota.", "bogota was damaged.", "really?", "yes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %q, want %q", got, want)
	}
}

func TestPunktSplit(t *testing.T) {
	p, err := NewPunkt()
	if err != nil {
		t.Fatalf("NewPunkt() error: %v", err)
	}

	got := p.Split("The bomb exploded in Bogota. Police said nobody was hurt.")
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %q", got)
	}
	if got[1] != "Police said nobody was hurt." {
		t.Errorf("second sentence = %q", got[1])
	}
}

func TestNew(t *testing.T) {
	if s, err := New("rule"); err != nil || s.Name() != "rule" {
		t.Errorf("New(rule) = %v, %v", s, err)
	}
	if _, err := New("spacy"); err == nil {
		t.Error("expected error for unknown segmenter")
	}
}

func TestSentenceSpans(t *testing.T) {
	text := "THE BOMB EXPLODED IN BOGOTA. BOGOTA WAS DAMAGED. NO ONE DIED."
	sections := []string{"THE BOMB EXPLODED IN BOGOTA. BOGOTA WAS DAMAGED.", "NO ONE DIED."}
	spans := []model.Span{{Start: 0, End: 48}, {Start: 49, End: 61}}

	s := NewSplitter(Rule{}, true, nil)
	got, err := s.SentenceSpans(sections, spans)
	if err != nil {
		t.Fatalf("SentenceSpans() error: %v", err)
	}

	want := []model.Span{{Start: 0, End: 28}, {Start: 29, End: 48}, {Start: 49, End: 61}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SentenceSpans() = %v, want %v", got, want)
	}
	if text[got[1].Start:got[1].End] != "BOGOTA WAS DAMAGED." {
		t.Errorf("sentence 1 = %q", text[got[1].Start:got[1].End])
	}
}

func TestSentenceSpansRepeatedSentence(t *testing.T) {
	section := "HELLO. HELLO. HELLO."
	got, err := NewSplitter(Rule{}, false, nil).SentenceSpans([]string{section}, []model.Span{{Start: 0, End: len(section)}})
	if err != nil {
		t.Fatalf("SentenceSpans() error: %v", err)
	}
	want := []model.Span{{Start: 0, End: 6}, {Start: 7, End: 13}, {Start: 14, End: 20}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("repeated sentences must anchor left to right: %v", got)
	}
}

type rewritingSegmenter struct{}

func (rewritingSegmenter) Name() string { return "rewriting" }

func (rewritingSegmenter) Split(string) []string { return []string{"not in the text"} }

func TestSentenceSpansUnanchored(t *testing.T) {
	_, err := NewSplitter(rewritingSegmenter{}, false, nil).SentenceSpans([]string{"ABC."}, []model.Span{{Start: 0, End: 4}})
	if !errors.Is(err, ErrUnanchored) {
		t.Errorf("expected ErrUnanchored, got %v", err)
	}
}

type countingSegmenter struct {
	calls int
}

func (c *countingSegmenter) Name() string { return "counting" }

func (c *countingSegmenter) Split(text string) []string {
	c.calls++
	return Rule{}.Split(text)
}

func TestSentenceSpansCached(t *testing.T) {
	seg := &countingSegmenter{}
	s := NewSplitter(seg, true, cache.NewMemoryCache(time.Minute, time.Minute))

	sections := []string{"ONE. TWO."}
	spans := []model.Span{{Start: 0, End: 9}}
	first, err := s.SentenceSpans(sections, spans)
	if err != nil {
		t.Fatalf("SentenceSpans() error: %v", err)
	}
	second, err := s.SentenceSpans(sections, spans)
	if err != nil {
		t.Fatalf("SentenceSpans() error: %v", err)
	}

	if seg.calls != 1 {
		t.Errorf("segmenter called %d times, want 1", seg.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result differs: %v vs %v", first, second)
	}
}
