// Package snapshot reads school data files used to run the engine offline.
package snapshot

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/noah-isme/sma-timetable-api/internal/engine"
)

// File is the on-disk layout of a snapshot.
type File struct {
	SchoolID string                `json:"schoolId"`
	Classes  []engine.ClassGroup   `json:"classes"`
	Subjects []engine.Subject      `json:"subjects"`
	Mappings []engine.ClassSubject `json:"mappings"`
	Teachers []engine.Teacher      `json:"teachers"`
	Labs     []engine.LabRoom      `json:"labs"`
	Settings engine.ScheduleConfig `json:"settings"`
}

// Input returns the engine input described by the file.
func (f *File) Input() engine.Input {
	return engine.Input{
		Classes:  f.Classes,
		Mappings: f.Mappings,
		Teachers: f.Teachers,
		Labs:     f.Labs,
		Config:   f.Settings,
	}
}

// Load reads a YAML or JSON snapshot, chosen by extension.
func Load(path string) (*File, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s", filepath.Ext(path))
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var out File
	if err := k.UnmarshalWithConf("", &out, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return &out, nil
}
