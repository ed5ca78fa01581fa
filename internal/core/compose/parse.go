package compose

import (
	"context"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"
)

// FallbackProjectName is used when the document does not declare a top-level
// name. Compose requires some project name to load; the bundle's own name
// wins when present.
const FallbackProjectName = "unkube"

// LoadProject parses Docker Compose YAML into a compose-go Project.
// This is a pure function - no I/O, no side effects.
//
// Two loader choices differ from a runtime loader on purpose:
//   - Interpolation is skipped: ${VAR} placeholders in the document belong
//     to the target runtime, not to this pipeline.
//   - Normalization is skipped: the project must round-trip to disk without
//     injected defaults.
func LoadProject(yamlContent string) (*types.Project, error) {
	if strings.TrimSpace(yamlContent) == "" {
		return nil, ErrEmptyInput
	}

	// Parse YAML into a map first
	var dict map[string]interface{}
	if err := yaml.Unmarshal([]byte(yamlContent), &dict); err != nil {
		return nil, NewLoadError("", "invalid YAML syntax", ErrInvalidYAML)
	}
	if dict == nil {
		return nil, NewLoadError("", "invalid YAML syntax", ErrInvalidYAML)
	}

	project, err := loader.LoadWithContext(context.Background(), types.ConfigDetails{
		ConfigFiles: []types.ConfigFile{
			{
				Content: []byte(yamlContent),
				Config:  dict,
			},
		},
	}, func(opts *loader.Options) {
		opts.SetProjectName(FallbackProjectName, false)
		opts.SkipValidation = false
		opts.SkipInterpolation = true
		opts.SkipNormalization = true
		opts.SkipExtends = true // bundles are self-contained
	})
	if err != nil {
		return nil, NewLoadError("", err.Error(), ErrInvalidYAML)
	}

	if len(project.Services) == 0 {
		return nil, ErrNoServices
	}

	return project, nil
}

// MarshalProject serializes a project back to compose YAML.
func MarshalProject(project *types.Project) ([]byte, error) {
	return project.MarshalYAML()
}
