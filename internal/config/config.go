package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWrapperIdent = "wrapper"
	DefaultResultIdent  = "result"
)

// Config holds the fnwrap configuration.
type Config struct {
	// Identifiers used for the wrapper closure and its result, unless a rule or directive overrides them.
	Wrapper string `yaml:"wrapper" toml:"wrapper"`
	Result  string `yaml:"result" toml:"result"`

	// Annotate adds an FNWRAP INFO comment above every rewritten function.
	Annotate bool `yaml:"annotate,omitempty" toml:"annotate,omitempty"`

	// Rules select functions by name and describe the code to insert into them.
	Rules []Rule `yaml:"rules,omitempty" toml:"rules,omitempty"`
}

// Rule describes code to insert into every function it matches.
type Rule struct {
	// Match is a path.Match pattern for the function name. Methods are matched as "Type.Method";
	// plain function names also match patterns without a dot.
	Match string `yaml:"match" toml:"match"`
	// Package is an optional path.Match pattern for the package path.
	Package string `yaml:"package,omitempty" toml:"package,omitempty"`

	Pre   string `yaml:"pre,omitempty" toml:"pre,omitempty"`
	Post  string `yaml:"post,omitempty" toml:"post,omitempty"`
	Trace bool   `yaml:"trace,omitempty" toml:"trace,omitempty"`

	// Imports lists packages used by Pre and Post that the file may not import yet.
	Imports []string `yaml:"imports,omitempty" toml:"imports,omitempty"`

	Wrapper string `yaml:"wrapper,omitempty" toml:"wrapper,omitempty"`
	Result  string `yaml:"result,omitempty" toml:"result,omitempty"`
}

// DefaultConfig returns a configuration with no rules.
func DefaultConfig() *Config {
	return &Config{
		Wrapper: DefaultWrapperIdent,
		Result:  DefaultResultIdent,
	}
}

// Load reads a configuration file. Files ending in .toml are read as TOML, anything else as YAML.
// Values missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to path, as TOML if the path ends in .toml and as YAML otherwise.
func (c *Config) Save(path string) error {
	var data []byte
	if isTOML(path) {
		buf := bytes.Buffer{}
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Validate checks the identifiers and patterns of the configuration.
func (c *Config) Validate() error {
	var errs []error
	if err := validateIdent("wrapper", c.Wrapper); err != nil {
		errs = append(errs, err)
	}
	if err := validateIdent("result", c.Result); err != nil {
		errs = append(errs, err)
	}

	for i, rule := range c.Rules {
		if rule.Match == "" {
			errs = append(errs, fmt.Errorf("rule %d: match is required", i))
		} else if _, err := path.Match(rule.Match, ""); err != nil {
			errs = append(errs, fmt.Errorf("rule %d: bad match pattern %q: %w", i, rule.Match, err))
		}
		if rule.Package != "" {
			if _, err := path.Match(rule.Package, ""); err != nil {
				errs = append(errs, fmt.Errorf("rule %d: bad package pattern %q: %w", i, rule.Package, err))
			}
		}
		if strings.TrimSpace(rule.Pre) == "" && strings.TrimSpace(rule.Post) == "" && !rule.Trace {
			errs = append(errs, fmt.Errorf("rule %d (%s): one of pre, post or trace is required", i, rule.Match))
		}
		if rule.Wrapper != "" {
			if err := validateIdent(fmt.Sprintf("rule %d wrapper", i), rule.Wrapper); err != nil {
				errs = append(errs, err)
			}
		}
		if rule.Result != "" {
			if err := validateIdent(fmt.Sprintf("rule %d result", i), rule.Result); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

// Matching returns the rules that apply to a function, in the order they are configured.
// funcName is "Name" for functions and "Type.Name" for methods.
func (c *Config) Matching(pkgPath, funcName string) []Rule {
	rules := []Rule{}
	for _, rule := range c.Rules {
		if rule.Matches(pkgPath, funcName) {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Matches reports whether the rule applies to a function.
func (r Rule) Matches(pkgPath, funcName string) bool {
	if r.Package != "" {
		ok, err := path.Match(r.Package, pkgPath)
		if err != nil || !ok {
			return false
		}
	}

	ok, err := path.Match(r.Match, funcName)
	if err == nil && ok {
		return true
	}

	// a pattern without a dot matches the method name alone
	if i := strings.LastIndexByte(funcName, '.'); i >= 0 && !strings.Contains(r.Match, ".") {
		ok, err = path.Match(r.Match, funcName[i+1:])
		return err == nil && ok
	}
	return false
}

func validateIdent(field, name string) error {
	if !token.IsIdentifier(name) || name == "_" {
		return fmt.Errorf("%s: %q is not a valid Go identifier", field, name)
	}
	return nil
}
