package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/goccy/go-json"
	"golang.org/x/mod/semver"

	"github.com/cmmoran/zodanno/pkg/annotation"
)

var (
	ErrNoPackageJSON = errors.New("no package.json found")
	ErrNoZod         = errors.New("zod is not a dependency")
)

var versionPattern = regexp.MustCompile(`\d+(?:\.\d+){0,2}(?:-[0-9A-Za-z.-]+)?`)

// PackageJSONDetector picks the dialect from the zod version declared in the
// nearest package.json at or above Dir.
type PackageJSONDetector struct {
	Dir string
}

type packageJSON struct {
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

func (d PackageJSONDetector) DetectDialect() (annotation.Dialect, error) {
	path, err := findUp(d.Dir, "package.json")
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	for _, deps := range []map[string]string{pkg.Dependencies, pkg.DevDependencies, pkg.PeerDependencies} {
		if v, ok := deps["zod"]; ok {
			return DialectForVersion(v)
		}
	}
	return "", fmt.Errorf("%s: %w", path, ErrNoZod)
}

// DialectForVersion maps an npm version range such as "^4.1.0" to a dialect.
func DialectForVersion(spec string) (annotation.Dialect, error) {
	v := versionPattern.FindString(spec)
	if v == "" {
		return "", fmt.Errorf("no version in %q", spec)
	}
	sv := "v" + v
	if !semver.IsValid(sv) {
		return "", fmt.Errorf("invalid zod version %q", spec)
	}
	if semver.Compare(semver.Major(sv), "v4") >= 0 {
		return annotation.DialectModern, nil
	}
	return annotation.DialectLegacy, nil
}

func findUp(dir, name string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		p := filepath.Join(abs, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("%s: %w", dir, ErrNoPackageJSON)
		}
		abs = parent
	}
}
