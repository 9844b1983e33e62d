package keys

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var commentRe = regexp.MustCompile(`^\s*;`)

// CollectKeyFiles resolves input to key files: the file itself, or every
// "key-*" file in the directory, sorted by name.
func CollectKeyFiles(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("could not find input file or directory: %w", err)
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, fmt.Errorf("read key directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "key-") {
			continue
		}
		files = append(files, filepath.Join(input, e.Name()))
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no key files found in %s", input)
	}
	return files, nil
}

// ReadLines reads key-file lines with trailing whitespace and ";" comment lines removed
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r\n\v\f")
		if commentRe.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read key lines: %w", err)
	}
	return lines, nil
}

// ReadFiles concatenates the lines of several key files
func ReadFiles(paths []string) ([]string, error) {
	var lines []string
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open key file: %w", err)
		}
		fileLines, err := ReadLines(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		lines = append(lines, fileLines...)
	}
	return lines, nil
}

// Chunk splits key-file lines into per-template chunks. A blank line ends
// a chunk and a line beginning "0. " starts a new one.
func Chunk(lines []string) [][]string {
	var (
		chunks [][]string
		cur    []string
	)

	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, cur)
		}
		cur = nil
	}

	for _, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
			flush()
		case strings.HasPrefix(line, "0. "):
			flush()
			cur = append(cur, line)
		default:
			cur = append(cur, line)
		}
	}
	flush()

	return chunks
}
