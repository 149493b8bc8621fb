package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bonuspoints/thelist/schema"
	"gopkg.in/yaml.v3"
)

// LoadOverrides reads a JSON or YAML list of attribute records keyed by their id.
// Overrides name items the catalog does not know and take precedence over it.
func LoadOverrides(path string) (map[string]schema.Attributes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading overrides: %w", err)
	}

	var list []schema.Attributes
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &list)
	default:
		err = json.Unmarshal(data, &list)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode overrides %s: %w", path, err)
	}

	out := make(map[string]schema.Attributes, len(list))
	for i, attrs := range list {
		if attrs.ID == "" {
			return nil, fmt.Errorf("override %d has no id", i)
		}
		if attrs.DisplayName == "" {
			attrs.DisplayName = attrs.ID
		}
		out[attrs.ID] = attrs
	}
	return out, nil
}
