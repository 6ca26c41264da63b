package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/uniconv/internal/convergence"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInput identifies what was checked.
type RunInput struct {
	Sequence string
	Start    float64
	End      float64
	Points   int
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Sequence  string    `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	Start     float64   `json:"start"`
	End       float64   `json:"end"`
	Points    int       `json:"points"`
	Epsilon   float64   `json:"epsilon"`
	MaxN      int       `json:"max_n"`
	Strategy  string    `json:"strategy"`
	Converged bool      `json:"converged"`
	Distance  float64   `json:"distance"`
	N         int       `json:"n"`
	Probes    int       `json:"probes"`
	ElapsedNs int64     `json:"elapsed_ns"`
}

// Save writes metadata.json and trace.csv under a new run directory and
// returns the run ID.
func (s *Store) Save(in RunInput, result convergence.Result, elapsedNs int64) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", in.Sequence, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Sequence:  in.Sequence,
		Timestamp: now,
		Start:     in.Start,
		End:       in.End,
		Points:    in.Points,
		Epsilon:   result.Epsilon,
		MaxN:      result.MaxN,
		Strategy:  string(result.Strategy),
		Converged: result.Converged,
		Distance:  result.Distance,
		N:         result.N,
		Probes:    result.Probes,
		ElapsedNs: elapsedNs,
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, traceFile), result.Trace); err != nil {
		return "", err
	}

	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonSafe(meta))
}

func writeTrace(path string, trace []convergence.Probe) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"probe", "n", "distance", "below"}); err != nil {
		return err
	}
	for i, p := range trace {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(p.N),
			strconv.FormatFloat(p.Distance, 'g', -1, 64),
			strconv.FormatBool(p.Below),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// jsonSafe replaces non-finite distances, which encoding/json rejects,
// with -1. The trace CSV keeps the exact value.
func jsonSafe(meta RunMetadata) RunMetadata {
	meta.Distance = finiteOr(meta.Distance, -1)
	return meta
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// List returns all readable runs, newest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]convergence.Probe, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []convergence.Probe{}, nil
	}

	trace := make([]convergence.Probe, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != 4 {
			return nil, fmt.Errorf("%s line %d: expected 4 fields, got %d", traceFile, i+2, len(record))
		}
		n, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", traceFile, i+2, err)
		}
		dist, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", traceFile, i+2, err)
		}
		below, err := strconv.ParseBool(record[3])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", traceFile, i+2, err)
		}
		trace = append(trace, convergence.Probe{N: n, Distance: dist, Below: below})
	}
	return trace, nil
}

// LoadResult rebuilds a Result from a stored run.
func (s *Store) LoadResult(runID string) (*RunMetadata, convergence.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, convergence.Result{}, err
	}
	trace, err := s.LoadTrace(runID)
	if err != nil {
		return nil, convergence.Result{}, err
	}

	res := convergence.Result{
		Converged: meta.Converged,
		Distance:  meta.Distance,
		N:         meta.N,
		Probes:    meta.Probes,
		Epsilon:   meta.Epsilon,
		MaxN:      meta.MaxN,
		Strategy:  convergence.Strategy(meta.Strategy),
		Trace:     trace,
	}
	if len(trace) > 0 && meta.Distance < 0 {
		res.Distance = distanceFromTrace(res)
	}
	return meta, res, nil
}

func distanceFromTrace(res convergence.Result) float64 {
	if res.Converged {
		for _, p := range res.Trace {
			if p.N == res.N {
				return p.Distance
			}
		}
	}
	return res.Trace[len(res.Trace)-1].Distance
}

type ExportData struct {
	RunMetadata
	Trace []ExportProbe `json:"trace"`
}

type ExportProbe struct {
	N        int     `json:"n"`
	Distance float64 `json:"distance"`
	Below    bool    `json:"below"`
}

// ExportJSON writes a run and its trace as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	trace, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}

	data := ExportData{RunMetadata: *meta, Trace: make([]ExportProbe, len(trace))}
	for i, p := range trace {
		data.Trace[i] = ExportProbe{N: p.N, Distance: finiteOr(p.Distance, -1), Below: p.Below}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
