package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// ErrInvalidComposer is returned when composer.json is not valid JSON.
var ErrInvalidComposer = errors.New("invalid composer.json")

// LaravelPackage is the composer package that marks a Laravel application.
const LaravelPackage = "laravel/framework"

// Framework describes the Laravel dependency declared in composer.json.
type Framework struct {
	// Package is the composer package name.
	Package string

	// Constraint is the version constraint, e.g. "^11.0".
	Constraint string

	// Dev is true when the package is only in require-dev.
	Dev bool
}

// DetectLaravel reads <root>/composer.json and reports the Laravel
// requirement. A missing composer.json is not an error.
func DetectLaravel(root string) (Framework, bool, error) {
	data, err := os.ReadFile(filepath.Join(root, "composer.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return Framework{}, false, nil
	}
	if err != nil {
		return Framework{}, false, err
	}
	if !gjson.ValidBytes(data) {
		return Framework{}, false, fmt.Errorf("%w: %s", ErrInvalidComposer, root)
	}

	// Package names contain a slash but never a dot, so they are safe
	// as a single gjson path segment.
	for _, section := range []string{"require", "require-dev"} {
		if r := gjson.GetBytes(data, section+"."+LaravelPackage); r.Exists() {
			return Framework{
				Package:    LaravelPackage,
				Constraint: r.String(),
				Dev:        section == "require-dev",
			}, true, nil
		}
	}
	return Framework{}, false, nil
}
