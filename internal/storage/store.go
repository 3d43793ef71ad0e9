package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/boxsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

// fields written per body, in column order after the time column.
var bodyColumns = []string{"x", "y", "z", "vx", "vy", "vz", "contacts"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string                `json:"id"`
	Scene     string                `json:"scene"`
	Timestamp time.Time             `json:"timestamp"`
	Seed      int64                 `json:"seed"`
	Dt        float64               `json:"dt"`
	Duration  float64               `json:"duration"`
	Steps     int                   `json:"steps"`
	Bodies    []string              `json:"bodies"`
	Sizes     map[string]mgl64.Vec3 `json:"sizes"`
	Metrics   map[string]float64    `json:"metrics"`
}

// NewMetadata describes result, taking body names and sizes from its first
// frame.
func NewMetadata(scene string, seed int64, cfg sim.Config, result *sim.Result) RunMetadata {
	meta := RunMetadata{
		Scene:    scene,
		Seed:     seed,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Steps:    result.StepsTaken,
		Sizes:    make(map[string]mgl64.Vec3),
		Metrics:  result.Metrics,
	}
	if len(result.Frames) > 0 {
		for _, b := range result.Frames[0].Bodies {
			meta.Bodies = append(meta.Bodies, b.Name)
			meta.Sizes[b.Name] = b.Size
		}
	}
	return meta
}

// Save writes a new run directory and returns its ID.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Scene, now.UnixNano())
	meta.Timestamp = now
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFrames(csvFile, meta.Bodies, result.Frames); err != nil {
		return "", fmt.Errorf("write frames: %w", err)
	}
	return meta.ID, nil
}

// WriteFrames writes one CSV row per frame. Columns are time followed by
// position, velocity and contact names of every body in order.
func WriteFrames(out io.Writer, bodies []string, frames []sim.Frame) error {
	w := csv.NewWriter(out)

	header := []string{"time"}
	for _, name := range bodies {
		for _, col := range bodyColumns {
			header = append(header, name+"."+col)
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{formatFloat(f.Time)}
		for _, name := range bodies {
			b, ok := f.Body(name)
			if !ok {
				row = append(row, make([]string, len(bodyColumns))...)
				continue
			}
			for i := 0; i < 3; i++ {
				row = append(row, formatFloat(b.Position[i]))
			}
			for i := 0; i < 3; i++ {
				row = append(row, formatFloat(b.Velocity[i]))
			}
			row = append(row, strings.Join(b.Contacts, ";"))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns the metadata of every run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadFrames reads back the frames of a run. Body sizes come from the
// metadata.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		f := sim.Frame{Time: t, Bodies: make([]sim.BodyState, 0, len(meta.Bodies))}
		for j, name := range meta.Bodies {
			base := 1 + j*len(bodyColumns)
			if base+len(bodyColumns) > len(record) || record[base] == "" {
				continue
			}
			b := sim.BodyState{Name: name, Size: meta.Sizes[name]}
			for k := 0; k < 3; k++ {
				b.Position[k], _ = strconv.ParseFloat(record[base+k], 64)
				b.Velocity[k], _ = strconv.ParseFloat(record[base+3+k], 64)
			}
			if c := record[base+6]; c != "" {
				b.Contacts = strings.Split(c, ";")
			}
			f.Bodies = append(f.Bodies, b)
		}
		frames = append(frames, f)
	}

	return frames, nil
}

// Result rebuilds a sim.Result from a saved run.
func (s *Store) Result(runID string) (*RunMetadata, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &sim.Result{Frames: frames, Metrics: meta.Metrics, StepsTaken: meta.Steps}, nil
}
