package report

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/call-intel/internal/model"
)

//go:embed settings.yaml
var defaultSettingsYAML []byte

// IndustryProfile holds the vocabulary a report should use for an industry.
type IndustryProfile struct {
	FocusAreas  []string `yaml:"focus_areas"`
	Terminology []string `yaml:"terminology"`
}

// StageProfile holds the recommended approach for a funnel stage.
type StageProfile struct {
	Focus        string `yaml:"focus"`
	CallToAction string `yaml:"call_to_action"`
	ContentType  string `yaml:"content_type"`
}

// GenerationSettings tunes the report LLM call and the context size.
type GenerationSettings struct {
	MaxTokens    int64   `yaml:"max_tokens"`
	Temperature  float64 `yaml:"temperature"`
	ExcerptRunes int     `yaml:"excerpt_runes"`
	MaxCriteria  int     `yaml:"max_criteria"`
}

// Settings personalizes reports by industry and funnel stage.
type Settings struct {
	Generation   GenerationSettings                 `yaml:"generation"`
	Defaults     IndustryProfile                    `yaml:"defaults"`
	DefaultStage model.FunnelStage                  `yaml:"default_stage"`
	Industries   map[model.Industry]IndustryProfile `yaml:"industries"`
	Stages       map[model.FunnelStage]StageProfile `yaml:"stages"`
}

// DefaultSettings returns the embedded settings.
func DefaultSettings() *Settings {
	s, err := parseSettings(defaultSettingsYAML)
	if err != nil {
		panic(eris.Wrap(err, "report: embedded settings"))
	}
	return s
}

// LoadSettings reads settings from path, or the embedded file when path is
// empty. Missing sections in the file fall back to the embedded values.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "report: read settings %s", path)
	}
	s, err := parseSettings(data)
	if err != nil {
		return nil, eris.Wrapf(err, "report: parse settings %s", path)
	}
	s.fill(DefaultSettings())
	return s, nil
}

func parseSettings(data []byte) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// fill copies every unset value from d.
func (s *Settings) fill(d *Settings) {
	if s.Generation.MaxTokens <= 0 {
		s.Generation.MaxTokens = d.Generation.MaxTokens
	}
	if s.Generation.Temperature <= 0 {
		s.Generation.Temperature = d.Generation.Temperature
	}
	if s.Generation.ExcerptRunes <= 0 {
		s.Generation.ExcerptRunes = d.Generation.ExcerptRunes
	}
	if s.Generation.MaxCriteria <= 0 {
		s.Generation.MaxCriteria = d.Generation.MaxCriteria
	}
	if len(s.Defaults.FocusAreas) == 0 {
		s.Defaults.FocusAreas = d.Defaults.FocusAreas
	}
	if len(s.Defaults.Terminology) == 0 {
		s.Defaults.Terminology = d.Defaults.Terminology
	}
	if s.DefaultStage == "" {
		s.DefaultStage = d.DefaultStage
	}
	if s.Industries == nil {
		s.Industries = d.Industries
	}
	if s.Stages == nil {
		s.Stages = d.Stages
	}
}

// Industry returns the profile for ind. Fields without an entry take the
// defaults.
func (s *Settings) Industry(ind model.Industry) IndustryProfile {
	p := s.Industries[ind]
	if len(p.FocusAreas) == 0 {
		p.FocusAreas = s.Defaults.FocusAreas
	}
	if len(p.Terminology) == 0 {
		p.Terminology = s.Defaults.Terminology
	}
	return p
}

// Stage returns the profile for stage, or the default stage's profile when
// stage has no entry.
func (s *Settings) Stage(stage model.FunnelStage) StageProfile {
	if p, ok := s.Stages[stage]; ok {
		return p
	}
	return s.Stages[s.DefaultStage]
}
