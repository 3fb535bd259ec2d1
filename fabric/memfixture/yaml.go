// Package memfixture loads memory initialization contents from a
// YAML fixture file, grounded on core/program.go's
// LoadProgramFileFromYAML: read the file, unmarshal into a plain Go
// struct, and let the caller decide how to turn it into fabric values.
package memfixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/hdlsim/sdata"
)

// Fixture is the on-disk shape of a memory init file: a list of entries,
// each a width-tagged unsigned value, in address order starting at 0.
type Fixture struct {
	Width   uint     `yaml:"width"`
	Entries []uint64 `yaml:"entries"`
}

// Load reads path and decodes it into a Fixture.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("memfixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("memfixture: %w", err)
	}
	return &f, nil
}

// Values converts the fixture's entries into the []sdata.Value shape
// fabric.Context.CreateMemory expects as its init argument (shorter
// than depth is fine, zero-padded by the engine).
func (f *Fixture) Values() []sdata.Value {
	out := make([]sdata.Value, len(f.Entries))
	for i, v := range f.Entries {
		out[i] = sdata.New(v, f.Width)
	}
	return out
}
