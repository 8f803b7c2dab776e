package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/nodefield/internal/field"
)

var ErrNotFound = errors.New("storage: session not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// SessionMetadata describes one recorded run of the field.
type SessionMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      uint64             `json:"seed"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Ticks     int                `json:"ticks"`
	Particles int                `json:"particles"`
	Metrics   map[string]float64 `json:"metrics"`
}

// FrameRow is one line of frames.csv.
type FrameRow struct {
	Tick            int     `csv:"tick"`
	ElapsedMs       float64 `csv:"elapsed_ms"`
	Width           float64 `csv:"width"`
	Height          float64 `csv:"height"`
	Particles       int     `csv:"particles"`
	Links           int     `csv:"links"`
	MeanLinkOpacity float64 `csv:"mean_link_opacity"`
	MeanPulse       float64 `csv:"mean_pulse"`
	OutOfBounds     int     `csv:"out_of_bounds"`
}

// Rows converts frame statistics, timing each frame from the first one.
func Rows(frames []field.FrameStats) []*FrameRow {
	rows := make([]*FrameRow, len(frames))
	for i, f := range frames {
		rows[i] = &FrameRow{
			Tick:            f.Tick,
			ElapsedMs:       float64(f.Time.Sub(frames[0].Time)) / float64(time.Millisecond),
			Width:           f.Width,
			Height:          f.Height,
			Particles:       f.Particles,
			Links:           f.Links,
			MeanLinkOpacity: f.MeanLinkOpacity,
			MeanPulse:       f.MeanPulse,
			OutOfBounds:     f.OutOfBounds,
		}
	}
	return rows
}

// Save writes a session directory and returns its id. An empty meta.ID is
// replaced by one derived from the preset and the current time.
func (s *Store) Save(meta SessionMetadata, frames []field.FrameStats) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		name := meta.Preset
		if name == "" {
			name = "session"
		}
		meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixNano())
	}
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	err := writeFile(filepath.Join(runDir, "metadata.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return "", err
	}

	err = writeFile(filepath.Join(runDir, "frames.csv"), func(w io.Writer) error {
		return gocsv.Marshal(Rows(frames), w)
	})
	if err != nil {
		return "", fmt.Errorf("write frames: %w", err)
	}
	return meta.ID, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeAndClose(f, write)
}

// writeAndClose runs write, then closes wc. The first error wins; a failed
// Close after a good write is still an error.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	if err := write(wc); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

// List returns every readable session, newest first.
func (s *Store) List() ([]SessionMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]SessionMetadata, 0)
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
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(id string) (*SessionMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var meta SessionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadFrames(id string) ([]*FrameRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, "frames.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	defer file.Close()

	rows := []*FrameRow{}
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return rows, nil
		}
		return nil, err
	}
	return rows, nil
}
