package config

import "sort"

var Presets = map[string]map[string]*Config{
	"inverse": {
		"boundary": {
			Sequence: "inverse",
			Domain:   DomainConfig{Start: 0, End: 1, Points: 100},
			Search:   SearchConfig{Epsilon: 0.01, MaxN: 10000, Strategy: "bisect"},
		},
		"strict": {
			Sequence: "inverse",
			Domain:   DomainConfig{Start: 0, End: 1, Points: 1000},
			Search:   SearchConfig{Epsilon: 1e-6, MaxN: 10000, Strategy: "bisect"},
		},
	},
	"oscillating": {
		"bisect": {
			Sequence: "oscillating",
			Domain:   DomainConfig{Start: 0, End: 1, Points: 10},
			Search:   SearchConfig{Epsilon: 0.01, MaxN: 2000, Strategy: "bisect"},
		},
		"linear": {
			Sequence: "oscillating",
			Domain:   DomainConfig{Start: 0, End: 1, Points: 10},
			Search:   SearchConfig{Epsilon: 0.01, MaxN: 2000, Strategy: "linear"},
		},
	},
	"power": {
		"coarse": {
			Sequence: "power",
			Domain:   DomainConfig{Start: 0, End: 1, Points: 101},
			Search:   SearchConfig{Epsilon: 0.01, MaxN: 10000, Strategy: "bisect"},
		},
		"fine": {
			Sequence: "power",
			Domain:   DomainConfig{Start: 0, End: 1, Points: 10001},
			Search:   SearchConfig{Epsilon: 0.01, MaxN: 10000, Strategy: "bisect"},
		},
	},
	"binomial-call": {
		"desk": {
			Sequence: "binomial-call",
			Domain:   DomainConfig{Start: 80, End: 120, Points: 41},
			Search:   SearchConfig{Epsilon: 0.01, MaxN: 2000, Strategy: "bisect"},
		},
		"audit": {
			Sequence: "binomial-call",
			Domain:   DomainConfig{Start: 80, End: 120, Points: 41},
			Search:   SearchConfig{Epsilon: 0.05, MaxN: 500, Strategy: "linear"},
		},
	},
	"exp-taylor": {
		"machine": {
			Sequence: "exp-taylor",
			Domain:   DomainConfig{Start: -1, End: 1, Points: 201},
			Search:   SearchConfig{Epsilon: 1e-12, MaxN: 100, Strategy: "bisect"},
		},
	},
}

func GetPreset(sequence, preset string) *Config {
	sequencePresets, ok := Presets[sequence]
	if !ok {
		return nil
	}
	cfg, ok := sequencePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

// ListPresets returns preset names for sequence in sorted order, or nil
// if the sequence has none.
func ListPresets(sequence string) []string {
	sequencePresets, ok := Presets[sequence]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(sequencePresets))
	for name := range sequencePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
