package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is the optional YAML overlay for the pipeline section.
// Absent keys keep the environment value.
//
//	pipeline:
//	  sheet_name: Quarter
//	  min_rows: 10
//	  max_missing: 5
type Profile struct {
	Pipeline struct {
		SourceURL  *string `yaml:"source_url"`
		SheetName  *string `yaml:"sheet_name"`
		HeaderRows *int    `yaml:"header_rows"`
		OutputDir  *string `yaml:"output_dir"`
		MinRows    *int    `yaml:"min_rows"`
		MaxMissing *int    `yaml:"max_missing"`
		Schedule   *string `yaml:"schedule"`

		CheckSchedule *string `yaml:"check_schedule"`
	} `yaml:"pipeline"`
}

// LoadProfile reads a YAML profile, failing on unknown fields
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", path, err)
	}

	return &p, nil
}

// ApplyFile overlays the profile at path onto c and re-validates
func (c *Config) ApplyFile(path string) error {
	p, err := LoadProfile(path)
	if err != nil {
		return err
	}

	src := p.Pipeline
	dst := &c.Pipeline
	if src.SourceURL != nil {
		dst.SourceURL = *src.SourceURL
	}
	if src.SheetName != nil {
		dst.SheetName = *src.SheetName
	}
	if src.HeaderRows != nil {
		dst.HeaderRows = *src.HeaderRows
	}
	if src.OutputDir != nil {
		dst.OutputDir = *src.OutputDir
	}
	if src.MinRows != nil {
		dst.MinRows = *src.MinRows
	}
	if src.MaxMissing != nil {
		dst.MaxMissing = *src.MaxMissing
	}
	if src.Schedule != nil {
		dst.Schedule = *src.Schedule
	}
	if src.CheckSchedule != nil {
		dst.CheckSchedule = *src.CheckSchedule
	}

	return c.validate()
}
