package assets

import (
	"fmt"
	"os"

	"github.com/hubastard/grove3d/engine/log"
)

var logger = log.New("assets")

// LoadShader reads a GLSL file from Root/shaders.
func LoadShader(name string) (string, error) {
	path := Path("shaders", name)
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	if len(b) == 0 {
		return "", fmt.Errorf("load shader %q: empty file", name)
	}
	return string(b), nil
}
