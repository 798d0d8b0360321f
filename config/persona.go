package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shubh-37/social-strategist/internal/models"
)

// LoadPersona reads a persona seed from a YAML file.
func LoadPersona(path string) (*models.Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file: %w", err)
	}

	var persona models.Persona
	if err := yaml.Unmarshal(data, &persona); err != nil {
		return nil, fmt.Errorf("failed to parse persona file: %w", err)
	}
	if persona.BrandName == "" {
		return nil, fmt.Errorf("persona file %s: brandName is required", path)
	}
	if persona.Industry == "" {
		return nil, fmt.Errorf("persona file %s: industry is required", path)
	}

	persona.Normalize()
	return &persona, nil
}
