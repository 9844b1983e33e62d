package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ppiankov/mucprep/internal/fixes"
	"github.com/ppiankov/mucprep/internal/locate"
	"github.com/ppiankov/mucprep/internal/model"
	"github.com/ppiankov/mucprep/internal/segment"
	"github.com/rs/zerolog"
)

const docsJSON = `{
    "TST1-MUC3-0001": {
        "docid": "TST1-MUC3-0001",
        "char_start": 14,
        "char_before": 0,
        "char_end": 120,
        "dateline": "BOGOTA, 2 FEB 89",
        "tags": ["radio"],
        "text": "THE BOMB EXPLODED\nIN BOGOTA.\n\n\nBOGOTA WAS   DAMAGED."
    },
    "TST1-MUC3-0002": {
        "docid": "TST1-MUC3-0002",
        "char_start": 134,
        "char_before": 120,
        "char_end": 200,
        "dateline": "LIMA",
        "tags": ["tv"],
        "text": "NOTHING HAPPENED."
    }
}`

const keysJSON = `{
    "TST1-MUC3-0001": [
        {
            "message_id": "TST1-MUC3-0001",
            "message_template": 1,
            "incident_type": "BOMBING",
            "incident_location": [
                {"type": "simple_strings", "strings": ["BOGOTA"], "optional": false}
            ],
            "hum_tgt_name": [
                {"type": "simple_strings", "strings": ["JOSE"], "optional": false}
            ]
        }
    ],
    "TST1-MUC3-0002": [
        {"message_id": "TST1-MUC3-0002", "message_template": "*"}
    ]
}`

func newTestPreprocessor(workers int) *Preprocessor {
	splitter := segment.NewSplitter(segment.Rule{}, true, nil).WithLogger(zerolog.Nop())
	localizer := locate.NewLocalizer(fixes.Default(), zerolog.Nop())
	return NewPreprocessor(splitter, localizer, WithWorkers(workers), WithLogger(zerolog.Nop()))
}

func writeSplit(t *testing.T, root, split string) SplitFiles {
	t.Helper()
	files := FilesFor(filepath.Join(root, "semiprocessed"), filepath.Join(root, "processed"), split)
	if err := os.MkdirAll(filepath.Dir(files.Docs), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(files.Docs, []byte(docsJSON), 0644); err != nil {
		t.Fatalf("write docs: %v", err)
	}
	if err := os.WriteFile(files.Keys, []byte(keysJSON), 0644); err != nil {
		t.Fatalf("write keys: %v", err)
	}
	return files
}

func TestFilesFor(t *testing.T) {
	got := FilesFor("data/semiprocessed", "data/processed", "dev")
	want := SplitFiles{
		Docs:                 filepath.Join("data/semiprocessed", "dev", "dev_docs.json"),
		Keys:                 filepath.Join("data/semiprocessed", "dev", "dev_keys.json"),
		Processed:            filepath.Join("data/processed", "dev", "dev.json"),
		UnlocatableEntities:  filepath.Join("data/processed", "dev", "dev_unlocatable_entities.json"),
		UnlocatableLocations: filepath.Join("data/processed", "dev", "dev_unlocatable_locations.json"),
	}
	if got != want {
		t.Errorf("FilesFor() = %+v, want %+v", got, want)
	}
}

func TestRunSplit(t *testing.T) {
	files := writeSplit(t, t.TempDir(), "test")

	res, err := newTestPreprocessor(2).RunSplit(context.Background(), "test", files)
	if err != nil {
		t.Fatalf("RunSplit() error: %v", err)
	}
	if res.Located != 1 || res.Unlocated != 1 {
		t.Errorf("located/unlocated = %d/%d, want 1/1", res.Located, res.Unlocated)
	}

	var processed map[string]*model.ProcessedDocument
	data, err := os.ReadFile(files.Processed)
	if err != nil {
		t.Fatalf("read processed: %v", err)
	}
	if err := json.Unmarshal(data, &processed); err != nil {
		t.Fatalf("decode processed: %v", err)
	}

	doc := processed["TST1-MUC3-0001"]
	if doc == nil {
		t.Fatalf("processed output missing document: %s", data)
	}
	if doc.Text != "THE BOMB EXPLODED IN BOGOTA. BOGOTA WAS DAMAGED." {
		t.Errorf("Text = %q", doc.Text)
	}
	wantSentences := []model.Span{{Start: 0, End: 28}, {Start: 29, End: 48}}
	if !reflect.DeepEqual(doc.Sentences, wantSentences) {
		t.Errorf("Sentences = %v, want %v", doc.Sentences, wantSentences)
	}
	if len(doc.Templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(doc.Templates))
	}
	loc := doc.Templates[0].Fillers(model.SlotIncidentLocation)[0]
	wantDoc := []model.Span{{Start: 21, End: 27}, {Start: 29, End: 35}}
	if !reflect.DeepEqual(loc.DocumentMentions, wantDoc) {
		t.Errorf("document_mentions = %v, want %v", loc.DocumentMentions, wantDoc)
	}
	if got := loc.SentenceMentions.Get(1); !reflect.DeepEqual(got, []model.Span{{Start: 0, End: 6}}) {
		t.Errorf("sentence 1 mentions = %v", got)
	}

	// sentinel-only documents keep their entry with no templates
	empty := processed["TST1-MUC3-0002"]
	if empty == nil || len(empty.Templates) != 0 {
		t.Errorf("sentinel document = %+v", empty)
	}

	entities, err := os.ReadFile(files.UnlocatableEntities)
	if err != nil {
		t.Fatalf("read entities: %v", err)
	}
	if string(entities) != "{\n    \"TST1-MUC3-0001\": [\n        \"JOSE\"\n    ]\n}\n" {
		t.Errorf("unlocatable entities = %s", entities)
	}
	locations, err := os.ReadFile(files.UnlocatableLocations)
	if err != nil {
		t.Fatalf("read locations: %v", err)
	}
	if string(locations) != "{}\n" {
		t.Errorf("unlocatable locations = %s", locations)
	}
}

func TestProcessLeavesKeysUntouched(t *testing.T) {
	var docs model.RawDocuments
	var keys model.TemplatesByDoc
	if err := json.Unmarshal([]byte(docsJSON), &docs); err != nil {
		t.Fatalf("decode docs: %v", err)
	}
	if err := json.Unmarshal([]byte(keysJSON), &keys); err != nil {
		t.Fatalf("decode keys: %v", err)
	}

	if _, err := newTestPreprocessor(1).Process(context.Background(), "test", docs, keys); err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	f := keys["TST1-MUC3-0001"][0].Fillers(model.SlotIncidentLocation)[0]
	if f.Located || f.DocumentMentions != nil {
		t.Errorf("input filler was modified: %+v", f)
	}
}

func TestProcessWorkerCountInvariant(t *testing.T) {
	run := func(workers int) []byte {
		var docs model.RawDocuments
		var keys model.TemplatesByDoc
		if err := json.Unmarshal([]byte(docsJSON), &docs); err != nil {
			t.Fatalf("decode docs: %v", err)
		}
		if err := json.Unmarshal([]byte(keysJSON), &keys); err != nil {
			t.Fatalf("decode keys: %v", err)
		}
		res, err := newTestPreprocessor(workers).Process(context.Background(), "test", docs, keys)
		if err != nil {
			t.Fatalf("Process() error: %v", err)
		}
		data, err := json.Marshal(res.Documents)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return data
	}

	serial := run(1)
	parallel := run(4)
	if string(serial) != string(parallel) {
		t.Errorf("outputs differ:\nserial:   %s\nparallel: %s", serial, parallel)
	}
}

func TestRunSplitMissingInput(t *testing.T) {
	files := FilesFor(t.TempDir(), t.TempDir(), "dev")
	if _, err := newTestPreprocessor(1).RunSplit(context.Background(), "dev", files); err == nil {
		t.Error("expected error for missing split files")
	}
}
