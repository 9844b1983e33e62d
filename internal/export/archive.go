package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/mucprep/internal/util"
)

// WriteArchive writes one "<id>.json" entry per communication
func WriteArchive(path string, comms []*Communication) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, c := range comms {
		w, err := zw.Create(c.ID + ".json")
		if err != nil {
			return fmt.Errorf("add %s: %w", c.ID, err)
		}
		if err := util.EncodeJSON(w, c, 0); err != nil {
			return fmt.Errorf("encode %s: %w", c.ID, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return f.Close()
}

// ReadArchive reads every communication of an archive in entry order
func ReadArchive(path string) ([]*Communication, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	comms := make([]*Communication, 0, len(zr.File))
	for _, entry := range zr.File {
		r, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", entry.Name, err)
		}
		var c Communication
		err = json.NewDecoder(r).Decode(&c)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", entry.Name, err)
		}
		comms = append(comms, &c)
	}
	return comms, nil
}
