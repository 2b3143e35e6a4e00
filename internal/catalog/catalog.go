// Package catalog implements the profile catalog collaborator: a
// read-mostly lookup of configured tone profiles, partitioned per stream
// scope. The YAML-backed implementation unmarshals once into a typed
// tree and fills in default tolerance and ignore_seconds at load time;
// entries are not otherwise validated.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/icad-go/tonedetect/internal/types"
)

// ProfileCatalog is the read-only profile lookup the match engine
// consumes.
type ProfileCatalog interface {
	ListProfiles(streamScope string) []types.ToneProfile
}

// entry is one profile's on-disk representation.
type entry struct {
	ProfileID            string            `yaml:"profile_id"`
	ProfileName           string            `yaml:"profile_name"`
	ATone                float64           `yaml:"a_tone"`
	BTone                float64           `yaml:"b_tone"`
	CTone                float64           `yaml:"c_tone"`
	DTone                float64           `yaml:"d_tone"`
	ToneTolerancePercent float64           `yaml:"tone_tolerance_percent"`
	IgnoreSeconds        float64           `yaml:"ignore_seconds"`
	Meta                 map[string]string `yaml:"meta"`
}

// document is the top-level YAML shape: a stream scope name mapped to
// its list of profiles.
type document struct {
	Streams map[string][]entry `yaml:"streams"`
}

const (
	defaultTolerancePercent = 2
	defaultIgnoreSeconds    = 300
)

// Static is an in-memory ProfileCatalog loaded once from a YAML document.
type Static struct {
	byStream map[string][]types.ToneProfile
}

// LoadFile reads and parses a YAML profile catalog from path.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-provided config path
	if err != nil {
		return nil, fmt.Errorf("reading catalog %q: %w", path, err)
	}

	return Load(data)
}

// Load parses a YAML profile catalog document.
func Load(data []byte) (*Static, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	byStream := make(map[string][]types.ToneProfile, len(doc.Streams))

	for stream, entries := range doc.Streams {
		profiles := make([]types.ToneProfile, 0, len(entries))

		for _, e := range entries {
			profiles = append(profiles, toProfile(e))
		}

		byStream[stream] = profiles
	}

	return &Static{byStream: byStream}, nil
}

// ListProfiles returns streamScope's configured profiles, or nil if the
// scope is unknown.
func (s *Static) ListProfiles(streamScope string) []types.ToneProfile {
	return s.byStream[streamScope]
}

// Streams returns every configured stream scope name, sorted.
func (s *Static) Streams() []string {
	names := make([]string, 0, len(s.byStream))
	for name := range s.byStream {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func toProfile(e entry) types.ToneProfile {
	tolerance := e.ToneTolerancePercent
	if tolerance == 0 {
		tolerance = defaultTolerancePercent
	}

	ignore := e.IgnoreSeconds
	if ignore == 0 {
		ignore = defaultIgnoreSeconds
	}

	return types.ToneProfile{
		ProfileID:            e.ProfileID,
		ProfileName:          e.ProfileName,
		ATone:                e.ATone,
		BTone:                e.BTone,
		CTone:                e.CTone,
		DTone:                e.DTone,
		ToneTolerancePercent: tolerance,
		IgnoreSeconds:        ignore,
		Meta:                 e.Meta,
	}
}
