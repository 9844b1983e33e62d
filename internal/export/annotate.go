package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultAnnotationSet is the tool name of the entity set predictions are matched against
const DefaultAnnotationSet = "Span Finder"

// ErrNonSingleton indicates a predicted entity with more than one mention
var ErrNonSingleton = errors.New("export: entity is not a singleton")

// ErrFillerArity indicates a predicted filler that is not a single string
var ErrFillerArity = errors.New("export: predicted filler must hold exactly one string")

var spaceRe = regexp.MustCompile(`\s+`)

// PredictedSlot is one role of a predicted template with its fillers
type PredictedSlot struct {
	Role    string
	Fillers [][]string
}

// Prediction is one predicted template. Slots keep the order of the input line.
type Prediction struct {
	IncidentType string
	Slots        []PredictedSlot
}

// ReadPredictions reads JSON lines of the form {"DOCID": [template, ...]}.
// Lines for the same document accumulate.
func ReadPredictions(r io.Reader) (map[string][]Prediction, error) {
	out := make(map[string][]Prediction)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		var byDoc map[string][]json.RawMessage
		if err := json.Unmarshal(data, &byDoc); err != nil {
			return nil, fmt.Errorf("predictions line %d: %w", line, err)
		}
		for docID, templates := range byDoc {
			for _, raw := range templates {
				p, err := decodePrediction(raw)
				if err != nil {
					return nil, fmt.Errorf("predictions line %d: %w", line, err)
				}
				out[docID] = append(out[docID], p)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read predictions: %w", err)
	}
	return out, nil
}

func decodePrediction(raw json.RawMessage) (Prediction, error) {
	var p Prediction
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return p, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return p, fmt.Errorf("template must be an object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return p, err
		}
		key, _ := tok.(string)
		if key == "incident_type" {
			if err := dec.Decode(&p.IncidentType); err != nil {
				return p, fmt.Errorf("incident_type: %w", err)
			}
			continue
		}
		var fillers [][]string
		if err := dec.Decode(&fillers); err != nil {
			return p, fmt.Errorf("%s: %w", key, err)
		}
		p.Slots = append(p.Slots, PredictedSlot{Role: key, Fillers: fillers})
	}
	return p, nil
}

// Annotator adds predicted templates to exported communications
type Annotator struct {
	annotationSet string
	now           func() time.Time
	logger        zerolog.Logger
}

// NewAnnotator creates an annotator matching fillers against the entities
// of annotationSet
func NewAnnotator(annotationSet string, logger zerolog.Logger) *Annotator {
	if annotationSet == "" {
		annotationSet = DefaultAnnotationSet
	}
	return &Annotator{
		annotationSet: annotationSet,
		now:           time.Now,
		logger:        logger,
	}
}

// Annotate adds one situation per prediction. A filler is bound to the
// entity whose mention text equals it once all whitespace is removed;
// unmatched fillers are dropped with a warning and counted.
func (a *Annotator) Annotate(c *Communication, preds []Prediction) (int, error) {
	byText := make(map[string]string)
	if set := c.EntitySet(a.annotationSet); set != nil {
		for _, e := range set.Entities {
			if len(e.Mentions) != 1 {
				return 0, fmt.Errorf("%w: %s in %s has %d mentions", ErrNonSingleton, e.ID, c.ID, len(e.Mentions))
			}
			byText[spaceRe.ReplaceAllString(e.Mentions[0].Text, "")] = e.ID
		}
	} else {
		a.logger.Warn().Str("docid", c.ID).Str("annotation_set", a.annotationSet).Msg("no entity set for annotation set")
	}

	situations := c.SituationSet(Metadata{Tool: a.annotationSet, Timestamp: a.now().Unix()})
	unmatched := 0
	for _, p := range preds {
		args := []Argument{}
		for _, slot := range p.Slots {
			for _, filler := range slot.Fillers {
				if len(filler) != 1 {
					return unmatched, fmt.Errorf("%w: %s %s %q", ErrFillerArity, c.ID, slot.Role, filler)
				}
				id, ok := byText[spaceRe.ReplaceAllString(filler[0], "")]
				if !ok {
					a.logger.Warn().
						Str("docid", c.ID).
						Str("role", slot.Role).
						Str("filler", filler[0]).
						Msg("filler text matches no entity mention")
					unmatched++
					continue
				}
				args = append(args, Argument{Role: slot.Role, EntityID: id})
			}
		}
		situations.Situations = append(situations.Situations, Situation{
			Type:      SituationType,
			Kind:      strings.ToUpper(p.IncidentType),
			Arguments: args,
		})
	}
	return unmatched, nil
}

// AnnotateArchive annotates every communication of an archive with the
// predictions for its id and writes the result to out
func (a *Annotator) AnnotateArchive(in, out, predictions string) (int, error) {
	f, err := os.Open(predictions)
	if err != nil {
		return 0, fmt.Errorf("open predictions: %w", err)
	}
	preds, err := ReadPredictions(f)
	f.Close()
	if err != nil {
		return 0, err
	}

	comms, err := ReadArchive(in)
	if err != nil {
		return 0, err
	}

	unmatched := 0
	for _, c := range comms {
		n, err := a.Annotate(c, preds[c.ID])
		if err != nil {
			return unmatched, err
		}
		unmatched += n
	}

	return unmatched, WriteArchive(out, comms)
}
