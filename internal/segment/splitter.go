package segment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/mucprep/internal/cache"
	"github.com/ppiankov/mucprep/internal/model"
	"github.com/ppiankov/mucprep/internal/texts"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrUnanchored indicates a segmenter returned a sentence that does not
// occur in the section text
var ErrUnanchored = errors.New("segment: sentence not found in section")

// Splitter produces document-level sentence offsets
type Splitter struct {
	seg       Segmenter
	lowercase bool
	cache     cache.Cache
	logger    zerolog.Logger
}

// NewSplitter creates a splitter. lowercase segments a lower-cased copy of
// each section; all-caps newswire segments poorly otherwise. A nil cache
// disables caching.
func NewSplitter(seg Segmenter, lowercase bool, c cache.Cache) *Splitter {
	if c == nil {
		c = cache.NopCache{}
	}
	return &Splitter{
		seg:       seg,
		lowercase: lowercase,
		cache:     c,
		logger:    log.Logger,
	}
}

// WithLogger returns a copy of the splitter that logs to l
func (s *Splitter) WithLogger(l zerolog.Logger) *Splitter {
	c := *s
	c.logger = l
	return &c
}

// SentenceSpans splits each section into sentences and returns their
// offsets in the document text. sections and spans are parallel: spans[i]
// locates sections[i] in the document.
func (s *Splitter) SentenceSpans(sections []string, spans []model.Span) ([]model.Span, error) {
	if len(sections) != len(spans) {
		return nil, fmt.Errorf("segment: %d sections but %d spans", len(sections), len(spans))
	}

	var out []model.Span
	for i, section := range sections {
		text := section
		if s.lowercase {
			text = texts.LowerASCII(section)
		}

		sentences, err := s.split(text)
		if err != nil {
			return nil, err
		}

		offset := 0
		for _, sentence := range sentences {
			idx := strings.Index(text[offset:], sentence)
			if idx < 0 {
				return nil, fmt.Errorf("%w: %q", ErrUnanchored, sentence)
			}
			start := spans[i].Start + offset + idx
			out = append(out, model.Span{Start: start, End: start + len(sentence)})
			offset += idx + len(sentence)
		}
	}

	return out, nil
}

// split consults the cache before running the segmenter
func (s *Splitter) split(text string) ([]string, error) {
	key := cache.Key("segment", s.seg.Name(), text)

	if data, ok := s.cache.Get(key); ok {
		var sentences []string
		if err := json.Unmarshal(data, &sentences); err == nil {
			return sentences, nil
		}
		s.logger.Debug().Str("key", key).Msg("discarding unreadable cache entry")
	}

	sentences := s.seg.Split(text)

	data, err := json.Marshal(sentences)
	if err != nil {
		return nil, fmt.Errorf("encode sentences: %w", err)
	}
	if err := s.cache.Set(key, data, 0); err != nil {
		s.logger.Warn().Err(err).Msg("sentence cache write failed")
	}
	return sentences, nil
}
