package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/boxsim/internal/sim"
)

type ExportData struct {
	RunMetadata
	Frames []sim.Frame `json:"frames"`
}

// ExportJSON writes the run as a single JSON document to path, or to stdout
// when path is empty or "-".
func ExportJSON(path string, meta RunMetadata, result *sim.Result) error {
	var out io.Writer = os.Stdout
	if path != "" && path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: meta, Frames: result.Frames})
}

// ExportCSV writes the frames of a run in the same layout Save uses.
func ExportCSV(path string, meta RunMetadata, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteFrames(file, meta.Bodies, result.Frames)
}
