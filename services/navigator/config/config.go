// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and normalizes component-navigator path rules.
//
// Configuration is read from <projectRoot>/component-nav.yaml. A missing
// file is not an error (zero-config works out of the box). Three key shapes
// are accepted for backward compatibility, merged per field with this
// precedence:
//
//  1. Nested object under "componentPaths" (current shape)
//  2. Flat top-level keys ("logicBasePaths", "templateBasePaths", ...)
//  3. Legacy dotted keys ("componentNavigator.logicBasePaths", ...)
//  4. Built-in defaults
//
// A malformed entry (wrong YAML shape, e.g. a string where a list is
// expected) is equivalent to an unset entry: the next shape in the
// precedence order wins, and ultimately the default applies. Loading
// never fails on bad values, only on unreadable YAML syntax.
package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"gopkg.in/yaml.v3"
)

// configTracer traces configuration loads.
var configTracer = otel.Tracer("componentnav/config")

// ConfigFileName is the per-project configuration file name.
const ConfigFileName = "component-nav.yaml"

// MaxYAMLFileSize limits how large a config file may be (1 MiB).
const MaxYAMLFileSize = 1 << 20

// Placeholder tokens recognized inside path templates.
const (
	// NamespacePlaceholder is replaced with the namespace remainder joined
	// by the path separator.
	NamespacePlaceholder = "${namespace}"

	// ComponentNamePlaceholder is replaced with the component name.
	ComponentNamePlaceholder = "${componentName}"
)

// PathRules describes the search space for one file kind.
//
// Description:
//
//	One PathRules value exists per file kind (logic, template). BasePaths
//	are project-relative directories in precedence order; PathTemplates
//	are relative path patterns containing the two placeholders.
//
// Thread Safety: Immutable after loading; safe for concurrent use.
type PathRules struct {
	// BasePaths are project-relative root directories, precedence = order.
	BasePaths []string `yaml:"basePaths"`

	// PathTemplates are relative path patterns containing ${namespace}
	// and ${componentName} placeholders, tried in order.
	PathTemplates []string `yaml:"pathTemplates"`
}

// Config is the normalized component-navigator configuration.
//
// Description:
//
//	Produced by Load from whichever config shapes are present. All slice
//	fields are non-empty after defaulting; ExcludedDirectoryNames is
//	lower-cased.
//
// Thread Safety: Immutable after loading; safe for concurrent use.
type Config struct {
	// Logic is the search space for component logic files.
	Logic PathRules

	// Template is the search space for component template files.
	Template PathRules

	// ExcludedDirectoryNames are lower-cased directory names ignored when
	// deriving the namespace view of a base path.
	ExcludedDirectoryNames []string

	// FallbackTemplateDirs are directories consulted only by the
	// aggressive template fallback search.
	FallbackTemplateDirs []string

	// TagPrefix is the tag namespace prefix, e.g. "twig" for <twig:Card>.
	TagPrefix string

	// LogicExtension is the logic file extension, including the dot.
	LogicExtension string

	// TemplateExtension is the template file extension, including the dot.
	TemplateExtension string
}

// Default configuration values.
var (
	// DefaultLogicBasePaths is the default logic search root list.
	DefaultLogicBasePaths = []string{"src"}

	// DefaultLogicPathTemplates are the three conventional logic layouts.
	DefaultLogicPathTemplates = []string{
		"${namespace}/${componentName}.php",
		"Twig/Components/${namespace}/${componentName}.php",
		"Components/${namespace}/${componentName}.php",
	}

	// DefaultTemplateBasePaths is the default template search root list.
	DefaultTemplateBasePaths = []string{"templates"}

	// DefaultTemplatePathTemplates are the three conventional template layouts.
	DefaultTemplatePathTemplates = []string{
		"components/${namespace}/${componentName}.html.twig",
		"${namespace}/${componentName}.html.twig",
		"twig/components/${namespace}/${componentName}.html.twig",
	}

	// DefaultExcludedDirectoryNames are directory names that carry no
	// namespace meaning.
	DefaultExcludedDirectoryNames = []string{"src", "templates", "components"}

	// DefaultFallbackTemplateDirs are the aggressive-fallback directories.
	DefaultFallbackTemplateDirs = []string{"templates"}
)

// Default scalar values.
const (
	// DefaultTagPrefix is the component tag prefix.
	DefaultTagPrefix = "twig"

	// DefaultLogicExtension is the logic file extension.
	DefaultLogicExtension = ".php"

	// DefaultTemplateExtension is the template file extension.
	DefaultTemplateExtension = ".html.twig"
)

// legacyKeyPrefix is the key namespace used by old config files, where
// every option was a single dotted top-level key.
const legacyKeyPrefix = "componentNavigator."

// Default returns a Config populated with built-in defaults.
//
// Thread Safety: Safe for concurrent use (returns a fresh value).
func Default() *Config {
	return &Config{
		Logic: PathRules{
			BasePaths:     cloneStrings(DefaultLogicBasePaths),
			PathTemplates: cloneStrings(DefaultLogicPathTemplates),
		},
		Template: PathRules{
			BasePaths:     cloneStrings(DefaultTemplateBasePaths),
			PathTemplates: cloneStrings(DefaultTemplatePathTemplates),
		},
		ExcludedDirectoryNames: cloneStrings(DefaultExcludedDirectoryNames),
		FallbackTemplateDirs:   cloneStrings(DefaultFallbackTemplateDirs),
		TagPrefix:              DefaultTagPrefix,
		LogicExtension:         DefaultLogicExtension,
		TemplateExtension:      DefaultTemplateExtension,
	}
}

// Load reads and normalizes the configuration for a project root.
//
// Description:
//
//	Reads <projectRoot>/component-nav.yaml, merges the accepted shapes and
//	applies defaults. A missing file or empty project root yields the
//	defaults with no error. Only unreadable YAML syntax is an error.
//
// Inputs:
//
//	ctx - Context for tracing. Must not be nil.
//	projectRoot - Absolute path to the project root. May be empty.
//
// Outputs:
//
//	*Config - The normalized configuration. Never nil on success.
//	error - Non-nil only if the file exists but cannot be read or parsed.
//
// Thread Safety: Safe for concurrent use (stateless function).
func Load(ctx context.Context, projectRoot string) (*Config, error) {
	if ctx == nil {
		return nil, fmt.Errorf("config.Load: ctx must not be nil")
	}
	_, span := configTracer.Start(ctx, "config.Load")
	defer span.End()

	if projectRoot == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(filepath.Join(projectRoot, ConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
	}

	return Parse(data)
}

// Parse normalizes raw YAML configuration bytes.
//
// Description:
//
//	Decodes the YAML into a loose map and merges the nested, flat and
//	legacy shapes per field. Malformed entries fall through to the next
//	shape and finally to the default.
//
// Inputs:
//
//	data - Raw YAML bytes. Empty data yields the defaults.
//
// Outputs:
//
//	*Config - The normalized configuration.
//	error - Non-nil if the YAML cannot be parsed at all.
func Parse(data []byte) (*Config, error) {
	if len(data) == 0 {
		return Default(), nil
	}
	if len(data) > MaxYAMLFileSize {
		return nil, fmt.Errorf("config.Parse: YAML data exceeds maximum size (%d > %d)", len(data), MaxYAMLFileSize)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config.Parse: parsing YAML: %w", err)
	}

	cfg := Default()
	if raw == nil {
		return cfg, nil
	}

	// The nested shape groups everything under a componentPaths object.
	nested, _ := raw["componentPaths"].(map[string]any)
	nestedLogic, _ := nested["logic"].(map[string]any)
	nestedTemplate, _ := nested["template"].(map[string]any)

	mergeList(&cfg.Logic.BasePaths, raw,
		nestedLogic, "basePaths", "logicBasePaths")
	mergeList(&cfg.Logic.PathTemplates, raw,
		nestedLogic, "pathTemplates", "logicPathTemplates")
	mergeList(&cfg.Template.BasePaths, raw,
		nestedTemplate, "basePaths", "templateBasePaths")
	mergeList(&cfg.Template.PathTemplates, raw,
		nestedTemplate, "pathTemplates", "templatePathTemplates")
	mergeList(&cfg.ExcludedDirectoryNames, raw,
		nested, "excludedDirectoryNames", "excludedDirectoryNames")
	mergeList(&cfg.FallbackTemplateDirs, raw,
		nested, "fallbackTemplateDirs", "fallbackTemplateDirs")

	mergeScalar(&cfg.TagPrefix, raw, nested, "tagPrefix")
	mergeScalar(&cfg.LogicExtension, raw, nested, "logicExtension")
	mergeScalar(&cfg.TemplateExtension, raw, nested, "templateExtension")

	for i, name := range cfg.ExcludedDirectoryNames {
		cfg.ExcludedDirectoryNames[i] = strings.ToLower(name)
	}

	return cfg, nil
}

// ExcludedSet returns the excluded directory names as a lookup set.
//
// Thread Safety: Safe for concurrent use (returns a fresh map).
func (c *Config) ExcludedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.ExcludedDirectoryNames))
	for _, name := range c.ExcludedDirectoryNames {
		set[strings.ToLower(name)] = struct{}{}
	}
	return set
}

// Hash returns a stable hex digest of the configuration content.
//
// Description:
//
//	Used as a cache key component so a changed configuration never serves
//	stale inventory entries. JSON encoding of the struct is deterministic
//	for this field set.
func (c *Config) Hash() string {
	data, err := json.Marshal(c)
	if err != nil {
		// Config contains only strings and string slices; Marshal cannot
		// fail on it. Keep a distinct value anyway.
		return "unhashable"
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// mergeList resolves one list-valued option across the three shapes.
//
// Precedence: nested object field > flat top-level key > legacy dotted key.
// A shape contributes only when its value coerces to a non-empty string
// list; otherwise the next shape (and finally the default already in dst)
// applies.
func mergeList(dst *[]string, raw map[string]any, nested map[string]any, nestedKey, flatKey string) {
	if nested != nil {
		if vals, ok := stringList(nested[nestedKey]); ok {
			*dst = vals
			return
		}
	}
	if vals, ok := stringList(raw[flatKey]); ok {
		*dst = vals
		return
	}
	if vals, ok := stringList(raw[legacyKeyPrefix+flatKey]); ok {
		*dst = vals
	}
}

// mergeScalar resolves one string-valued option across the three shapes.
func mergeScalar(dst *string, raw map[string]any, nested map[string]any, key string) {
	if nested != nil {
		if s, ok := nested[key].(string); ok && s != "" {
			*dst = s
			return
		}
	}
	if s, ok := raw[key].(string); ok && s != "" {
		*dst = s
		return
	}
	if s, ok := raw[legacyKeyPrefix+key].(string); ok && s != "" {
		*dst = s
	}
}

// stringList coerces a decoded YAML value to a non-empty string list.
//
// Accepts []any of strings. Any other shape (a bare string, numbers,
// maps, mixed lists) reports false so the caller falls through to the
// next precedence level.
func stringList(v any) ([]string, bool) {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok || s == "" {
				return nil, false
			}
			out = append(out, s)
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	case []string:
		if len(val) == 0 {
			return nil, false
		}
		return cloneStrings(val), true
	default:
		return nil, false
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
