package pointcloud

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("pointcloud: unknown format")

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads a point cloud from path. Dimensions are not validated here.
func Load(path string) ([][]float64, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	points, err := Parse(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

func Parse(r io.Reader, format Format) ([][]float64, error) {
	switch format {
	case FormatCSV:
		return parseCSV(r)
	case FormatJSON:
		return parseJSON(r)
	case FormatYAML:
		return parseYAML(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// parseCSV reads one point per row. A first row with no numeric field is
// treated as a header.
func parseCSV(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	points := make([][]float64, 0, len(records))
	for i, record := range records {
		point, col, err := parseRow(record)
		if err != nil {
			if i == 0 && isHeader(record) {
				continue
			}
			return nil, fmt.Errorf("row %d, column %d: %w", i+1, col+1, err)
		}
		points = append(points, point)
	}
	return points, nil
}

func isHeader(record []string) bool {
	for _, field := range record {
		if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err == nil {
			return false
		}
	}
	return true
}

func parseRow(record []string) ([]float64, int, error) {
	point := make([]float64, 0, len(record))
	for j, field := range record {
		field = strings.TrimSpace(field)
		if field == "" && j == len(record)-1 {
			break
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, j, err
		}
		point = append(point, v)
	}
	return point, 0, nil
}

func parseJSON(r io.Reader) ([][]float64, error) {
	var points [][]float64
	if err := json.NewDecoder(r).Decode(&points); err != nil {
		return nil, err
	}
	return points, nil
}

type yamlCloud struct {
	Points [][]float64 `yaml:"points"`
}

// parseYAML accepts either a mapping with a points key or a bare sequence
// of sequences.
func parseYAML(r io.Reader) ([][]float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return [][]float64{}, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.MappingNode:
		var cloud yamlCloud
		if err := root.Decode(&cloud); err != nil {
			return nil, err
		}
		return cloud.Points, nil
	case yaml.SequenceNode:
		var points [][]float64
		if err := root.Decode(&points); err != nil {
			return nil, err
		}
		return points, nil
	}
	return nil, fmt.Errorf("line %d: expected a list of points", root.Line)
}
