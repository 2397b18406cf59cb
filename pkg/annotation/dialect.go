package annotation

import (
	"fmt"
	"strings"
)

// Dialect selects one of the two output-library conventions.
type Dialect string

const (
	DialectAuto   Dialect = "auto"
	DialectLegacy Dialect = "legacy" // zod v3
	DialectModern Dialect = "modern" // zod v4
)

// ParseDialect accepts auto, legacy, modern and the aliases v3/v4.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DialectAuto, nil
	case "legacy", "v3", "3":
		return DialectLegacy, nil
	case "modern", "v4", "4":
		return DialectModern, nil
	}
	return "", fmt.Errorf("unknown dialect %q (want auto, legacy or modern)", s)
}

// DialectDetector resolves DialectAuto from the caller's environment.
type DialectDetector interface {
	DetectDialect() (Dialect, error)
}

// DetectorFunc adapts a function to DialectDetector.
type DetectorFunc func() (Dialect, error)

func (f DetectorFunc) DetectDialect() (Dialect, error) { return f() }

// resolveDialect turns auto into a concrete dialect; detection failures and
// missing detectors fall back to legacy.
func (c *config) resolveDialect(d Dialect) Dialect {
	if d == DialectLegacy || d == DialectModern {
		return d
	}
	if c.detector == nil {
		return DialectLegacy
	}
	got, err := c.detector.DetectDialect()
	if err != nil || (got != DialectLegacy && got != DialectModern) {
		c.logger.With("error", err, "detected", got).Debug("dialect detection failed, using legacy")
		return DialectLegacy
	}
	return got
}

// ResolveDialect turns DialectAuto into the dialect used for generation.
// Callers rendering many fields resolve once and pass the result on.
func (g *Generator) ResolveDialect(d Dialect) Dialect { return g.resolveDialect(d) }
