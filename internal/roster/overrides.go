package roster

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Overrides adjusts the computed roster: display names by key and an
// explicit navigation order.
type Overrides struct {
	Order []string          `toml:"order"`
	Names map[string]string `toml:"names"`
}

// LoadOverrides reads the TOML overrides document. Missing file is not an error.
func LoadOverrides(path string) (Overrides, error) {
	if path == "" {
		return Overrides{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Overrides{}, nil
		}
		return Overrides{}, fmt.Errorf("failed to stat overrides: %w", err)
	}
	var ov Overrides
	if _, err := toml.DecodeFile(path, &ov); err != nil {
		return Overrides{}, fmt.Errorf("failed to decode overrides: %w", err)
	}
	return ov, nil
}

// OverridesTemplate is written by `streaks roster --init` to document the format.
const OverridesTemplate = `# Character overrides
# Keys are portrait file names without extension (case-sensitive).
#
# order lists characters that should come first, in this order.
# Characters not listed follow alphabetically by file name.
# order = ["TheTrapper", "TheNurse"]

[names]
# TheNurse = "Nurse"
`
