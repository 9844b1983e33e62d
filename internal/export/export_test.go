package export

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/mucprep/internal/model"
	"github.com/rs/zerolog"
)

func fixedClock() time.Time {
	return time.Unix(1680566400, 0)
}

func sampleDocument() *model.ProcessedDocument {
	t := model.NewTemplate("TST1-MUC3-0001")
	t.MessageTemplate = 1
	t.IncidentType = "BOMBING"

	victim := model.NewSimpleFiller("BOGOTA")
	victim.ResetMentions()
	victim.DocumentMentions = []model.Span{{Start: 21, End: 27}, {Start: 29, End: 35}}
	t.Slots[model.SlotHumTgtName] = &model.SlotValue{Fillers: []*model.Filler{victim}}
	t.Slots[model.SlotPhysTgtID] = model.NullSlot()

	return &model.ProcessedDocument{
		Text:      "THE BOMB EXPLODED IN BOGOTA. BOGOTA WAS DAMAGED.",
		Sections:  []model.Span{{Start: 0, End: 28}, {Start: 29, End: 48}},
		Sentences: []model.Span{{Start: 0, End: 28}, {Start: 29, End: 48}},
		Templates: []*model.Template{t},
	}
}

func TestBuild(t *testing.T) {
	b := NewBuilder(WithClock(fixedClock))
	c, err := b.Build("TST1-MUC3-0001", sampleDocument())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if c.Type != CommunicationType || c.Metadata.Timestamp != 1680566400 {
		t.Errorf("header = %+v", c)
	}
	if len(c.Sections) != 2 || len(c.Sections[1].Sentences) != 1 {
		t.Fatalf("sections = %+v", c.Sections)
	}

	tokens := c.Tokens()
	if len(tokens) != 10 {
		t.Fatalf("expected 10 tokens, got %d", len(tokens))
	}
	if tokens[6].Text != "BOGOTA" || tokens[6].Start != 29 || tokens[6].Index != 6 {
		t.Errorf("token 6 = %+v", tokens[6])
	}

	entities := c.EntitySet(Tool).Entities
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}
	wantMentions := []EntityMention{
		{TokenStart: 4, TokenEnd: 4, Text: "BOGOTA"},
		{TokenStart: 6, TokenEnd: 6, Text: "BOGOTA"},
	}
	if !reflect.DeepEqual(entities[0].Mentions, wantMentions) {
		t.Errorf("mentions = %+v, want %+v", entities[0].Mentions, wantMentions)
	}

	situations := c.SituationSets[0].Situations
	want := []Situation{{
		Type:      SituationType,
		Kind:      "bombing",
		Arguments: []Argument{{Role: "Victim", EntityID: "TST1-MUC3-0001-E0"}},
	}}
	if !reflect.DeepEqual(situations, want) {
		t.Errorf("situations = %+v, want %+v", situations, want)
	}
}

func TestBuildLowercase(t *testing.T) {
	b := NewBuilder(WithLowercase(true), WithClock(fixedClock))
	if b.Variant() != "lowercase" {
		t.Errorf("Variant() = %q", b.Variant())
	}
	c, err := b.Build("TST1-MUC3-0001", sampleDocument())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if c.Text != "the bomb exploded in bogota. bogota was damaged." {
		t.Errorf("Text = %q", c.Text)
	}
	if got := c.EntitySets[0].Entities[0].Mentions[0].Text; got != "bogota" {
		t.Errorf("mention text = %q", got)
	}
}

func TestBuildErrors(t *testing.T) {
	doc := sampleDocument()
	doc.Sentences = []model.Span{{Start: 0, End: 40}}
	if _, err := NewBuilder().Build("D", doc); !errors.Is(err, ErrSectionBounds) {
		t.Errorf("expected ErrSectionBounds, got %v", err)
	}

	doc = sampleDocument()
	doc.Templates[0].Fillers(model.SlotHumTgtName)[0].DocumentMentions = []model.Span{{Start: 8, End: 10}}
	if _, err := NewBuilder().Build("D", doc); !errors.Is(err, ErrMisaligned) {
		t.Errorf("expected ErrMisaligned, got %v", err)
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	docs := model.ProcessedDocuments{
		"TST1-MUC3-0002": sampleDocument(),
		"TST1-MUC3-0001": sampleDocument(),
	}
	comms, err := NewBuilder(WithClock(fixedClock)).BuildAll(docs)
	if err != nil {
		t.Fatalf("BuildAll() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "uppercase", "test.zip")
	if err := WriteArchive(path, comms); err != nil {
		t.Fatalf("WriteArchive() error: %v", err)
	}
	back, err := ReadArchive(path)
	if err != nil {
		t.Fatalf("ReadArchive() error: %v", err)
	}
	if len(back) != 2 || back[0].ID != "TST1-MUC3-0001" {
		t.Fatalf("archive order = %v", back)
	}
	if !reflect.DeepEqual(back[0], comms[0]) {
		t.Errorf("round trip differs:\n%+v\n%+v", back[0], comms[0])
	}
}

func TestLoadRoles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roles.yaml")
	if err := os.WriteFile(path, []byte("hum_tgt_name: Victim\nperp_individual_id: PerpInd\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	roles, err := LoadRoles(path)
	if err != nil {
		t.Fatalf("LoadRoles() error: %v", err)
	}
	want := []Role{{Slot: "hum_tgt_name", Role: "Victim"}, {Slot: "perp_individual_id", Role: "PerpInd"}}
	if !reflect.DeepEqual(roles, want) {
		t.Errorf("roles = %v, want %v", roles, want)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("incident_stage_of_execution: Stage\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadRoles(bad); err == nil {
		t.Error("expected error for non-list slot")
	}
}

const predictionsJSONL = `{"TST1-MUC3-0001": [{"incident_type": "bombing", "Victim": [["BOGOTA"]], "PerpOrg": [["URBAN GUERRILLAS"]], "Target": [["EMBASSY"]]}]}

{"TST1-MUC3-0001": [{"incident_type": "attack", "PerpOrg": []}]}
`

func spanFinderCommunication() *Communication {
	return &Communication{
		ID: "TST1-MUC3-0001",
		EntitySets: []EntitySet{{
			Metadata: Metadata{Tool: DefaultAnnotationSet},
			Entities: []Entity{
				{ID: "e1", Mentions: []EntityMention{{Text: "URBAN  GUERRILLAS"}}},
				{ID: "e2", Mentions: []EntityMention{{Text: "BOGOTA"}}},
			},
		}},
	}
}

func TestReadPredictions(t *testing.T) {
	preds, err := ReadPredictions(strings.NewReader(predictionsJSONL))
	if err != nil {
		t.Fatalf("ReadPredictions() error: %v", err)
	}
	got := preds["TST1-MUC3-0001"]
	if len(got) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(got))
	}
	var roles []string
	for _, s := range got[0].Slots {
		roles = append(roles, s.Role)
	}
	if !reflect.DeepEqual(roles, []string{"Victim", "PerpOrg", "Target"}) {
		t.Errorf("slot order = %v", roles)
	}
}

func TestAnnotate(t *testing.T) {
	preds, err := ReadPredictions(strings.NewReader(predictionsJSONL))
	if err != nil {
		t.Fatalf("ReadPredictions() error: %v", err)
	}

	c := spanFinderCommunication()
	unmatched, err := NewAnnotator("", zerolog.Nop()).Annotate(c, preds[c.ID])
	if err != nil {
		t.Fatalf("Annotate() error: %v", err)
	}
	if unmatched != 1 {
		t.Errorf("unmatched = %d, want 1", unmatched)
	}

	set := c.SituationSets[0]
	if set.Metadata.Tool != DefaultAnnotationSet || len(set.Situations) != 2 {
		t.Fatalf("situation set = %+v", set)
	}
	want := Situation{
		Type: SituationType,
		Kind: "BOMBING",
		Arguments: []Argument{
			{Role: "Victim", EntityID: "e2"},
			{Role: "PerpOrg", EntityID: "e1"},
		},
	}
	if !reflect.DeepEqual(set.Situations[0], want) {
		t.Errorf("situation = %+v, want %+v", set.Situations[0], want)
	}
	if set.Situations[1].Kind != "ATTACK" || len(set.Situations[1].Arguments) != 0 {
		t.Errorf("second situation = %+v", set.Situations[1])
	}
}

func TestAnnotateErrors(t *testing.T) {
	c := spanFinderCommunication()
	c.EntitySets[0].Entities[0].Mentions = append(c.EntitySets[0].Entities[0].Mentions, EntityMention{Text: "X"})
	if _, err := NewAnnotator("", zerolog.Nop()).Annotate(c, nil); !errors.Is(err, ErrNonSingleton) {
		t.Errorf("expected ErrNonSingleton, got %v", err)
	}

	c = spanFinderCommunication()
	preds := []Prediction{{IncidentType: "bombing", Slots: []PredictedSlot{{Role: "Victim", Fillers: [][]string{{"A", "B"}}}}}}
	if _, err := NewAnnotator("", zerolog.Nop()).Annotate(c, preds); !errors.Is(err, ErrFillerArity) {
		t.Errorf("expected ErrFillerArity, got %v", err)
	}
}

func TestAnnotateArchive(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.zip")
	out := filepath.Join(dir, "out", "annotated.zip")
	predPath := filepath.Join(dir, "predictions.jsonl")

	if err := WriteArchive(in, []*Communication{spanFinderCommunication()}); err != nil {
		t.Fatalf("WriteArchive() error: %v", err)
	}
	if err := os.WriteFile(predPath, []byte(predictionsJSONL), 0644); err != nil {
		t.Fatalf("write predictions: %v", err)
	}

	unmatched, err := NewAnnotator("", zerolog.Nop()).AnnotateArchive(in, out, predPath)
	if err != nil {
		t.Fatalf("AnnotateArchive() error: %v", err)
	}
	if unmatched != 1 {
		t.Errorf("unmatched = %d, want 1", unmatched)
	}
	back, err := ReadArchive(out)
	if err != nil {
		t.Fatalf("ReadArchive() error: %v", err)
	}
	if len(back) != 1 || len(back[0].SituationSets) != 1 || len(back[0].SituationSets[0].Situations) != 2 {
		t.Errorf("annotated archive = %+v", back)
	}
}
