package texts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/mucprep/internal/model"
)

var (
	devHeaderRe = regexp.MustCompile(`(DEV-\S+) *\(([^\)]*)\)`)
	tstHeaderRe = regexp.MustCompile(`(TST\d+-\S+)`)
	tagRe       = regexp.MustCompile(`\[[^\]]+\]`)
	bodyRe      = regexp.MustCompile(`(?s)^(.*?)--\s+((?:\[[^\]]+\]\s+)+)(.*)`)
)

// ErrNoDocuments indicates a raw text file without any document header
var ErrNoDocuments = errors.New("texts: no document headers found")

// ErrNoDateline indicates a document body without a "dateline -- [TAGS]" header
var ErrNoDateline = errors.New("texts: document has no dateline and tags")

// ErrLowercaseTags indicates a tag list that is not upper case
var ErrLowercaseTags = errors.New("texts: tags are not upper case")

// Split parses one raw MUC text file into documents. Dev files carry
// "DEV-MUC3-0001 (NOSC)" headers with a source; test files carry bare
// "TST1-MUC3-0001" headers.
func Split(data string) ([]*model.RawDocument, error) {
	matches := devHeaderRe.FindAllStringSubmatchIndex(data, -1)
	hasSource := len(matches) > 0
	if !hasSource {
		matches = tstHeaderRe.FindAllStringSubmatchIndex(data, -1)
	}
	if len(matches) == 0 {
		return nil, ErrNoDocuments
	}

	docs := make([]*model.RawDocument, len(matches))
	for i, m := range matches {
		d := &model.RawDocument{
			DocID:      data[m[2]:m[3]],
			CharStart:  m[1],
			CharBefore: m[0],
		}
		if hasSource {
			d.Source = data[m[4]:m[5]]
		}
		docs[i] = d
	}
	for i := 0; i < len(docs)-1; i++ {
		docs[i].CharEnd = docs[i+1].CharBefore
	}
	docs[len(docs)-1].CharEnd = len(data)

	for _, d := range docs {
		if err := parseBody(d, strings.TrimSpace(data[d.CharStart:d.CharEnd])); err != nil {
			return nil, fmt.Errorf("%s: %w", d.DocID, err)
		}
	}

	return docs, nil
}

// parseBody fills dateline, tags and text from "DATELINE -- [TAG] [TAG] TEXT".
// Only the first dateline is taken when several are present.
func parseBody(d *model.RawDocument, raw string) error {
	m := bodyRe.FindStringSubmatch(raw)
	if m == nil {
		return ErrNoDateline
	}

	tags := strings.ReplaceAll(m[2], "\n", " ")
	if strings.ToUpper(tags) != tags {
		return ErrLowercaseTags
	}

	d.Dateline = strings.TrimSpace(strings.ReplaceAll(m[1], "\n", " "))
	d.Tags = make([]string, 0)
	for _, tag := range tagRe.FindAllString(tags, -1) {
		tag = strings.TrimRight(strings.TrimLeft(tag, "["), "]")
		d.Tags = append(d.Tags, strings.ToLower(tag))
	}

	text := strings.TrimSpace(m[3])
	text = strings.NewReplacer("[", "(", "]", ")").Replace(text)
	d.Text = text
	return nil
}

// CollectTextFiles resolves input to the file itself or every file in the
// directory, sorted by name
func CollectTextFiles(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("could not find input file or directory: %w", err)
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, fmt.Errorf("read text directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(input, e.Name()))
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no texts found in %s", input)
	}
	return files, nil
}

// SplitFiles splits every file and merges the documents by id. A later
// file wins when two files carry the same document id.
func SplitFiles(paths []string) (model.RawDocuments, error) {
	out := make(model.RawDocuments)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read text file: %w", err)
		}
		docs, err := Split(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, d := range docs {
			out[d.DocID] = d
		}
	}
	return out, nil
}
