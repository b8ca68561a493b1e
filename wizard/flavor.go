// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// StepKind names the form shown at a step.
type StepKind string

const (
	StepSignupChoice   StepKind = "signup-choice"
	StepAccountInfo    StepKind = "account-info"
	StepRoleSelect     StepKind = "role-select"
	StepProfilePicture StepKind = "profile-picture"
	StepRoleProfile    StepKind = "role-profile"
)

var knownKinds = []StepKind{StepSignupChoice, StepAccountInfo, StepRoleSelect, StepProfilePicture, StepRoleProfile}

// MaxSteps bounds the length of any flavor.
const MaxSteps = 8

// Flavor is a declarative wizard: an ordered list of steps numbered from
// MinStep. The last step is always the role profile, which persists the
// account.
type Flavor struct {
	Name       string     `yaml:"name" json:"name"`
	MinStep    int        `yaml:"min_step" json:"minStep"`
	Steps      []StepKind `yaml:"steps" json:"steps"`
	CheckEmail bool       `yaml:"check_email" json:"checkEmail"`
}

// MaxStep is the number of the last step.
func (f Flavor) MaxStep() int {
	return f.MinStep + len(f.Steps) - 1
}

// KindAt returns the step kind at a step number.
func (f Flavor) KindAt(step int) (StepKind, bool) {
	i := step - f.MinStep
	if i < 0 || i >= len(f.Steps) {
		return "", false
	}
	return f.Steps[i], true
}

// StepOf returns the step number of the first step of the given kind.
func (f Flavor) StepOf(kind StepKind) (int, bool) {
	i := slices.Index(f.Steps, kind)
	if i < 0 {
		return 0, false
	}
	return f.MinStep + i, true
}

// Validate checks the flavor is a usable wizard.
func (f Flavor) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidFlavor)
	}
	if len(f.Steps) == 0 || len(f.Steps) > MaxSteps {
		return fmt.Errorf("%w: %s must have 1-%d steps", ErrInvalidFlavor, f.Name, MaxSteps)
	}

	counts := make(map[StepKind]int)
	for _, k := range f.Steps {
		if !slices.Contains(knownKinds, k) {
			return fmt.Errorf("%w: %s has unknown step %q", ErrInvalidFlavor, f.Name, k)
		}
		counts[k]++
	}
	for _, k := range []StepKind{StepAccountInfo, StepRoleSelect, StepRoleProfile} {
		if counts[k] != 1 {
			return fmt.Errorf("%w: %s needs exactly one %s step", ErrInvalidFlavor, f.Name, k)
		}
	}
	for _, k := range []StepKind{StepSignupChoice, StepProfilePicture} {
		if counts[k] > 1 {
			return fmt.Errorf("%w: %s repeats %s", ErrInvalidFlavor, f.Name, k)
		}
	}

	if f.Steps[len(f.Steps)-1] != StepRoleProfile {
		return fmt.Errorf("%w: %s must end with %s", ErrInvalidFlavor, f.Name, StepRoleProfile)
	}
	account, _ := f.StepOf(StepAccountInfo)
	role, _ := f.StepOf(StepRoleSelect)
	if account > role {
		return fmt.Errorf("%w: %s asks for a role before account details", ErrInvalidFlavor, f.Name)
	}
	if choice, ok := f.StepOf(StepSignupChoice); ok && choice > account {
		return fmt.Errorf("%w: %s puts %s after account details", ErrInvalidFlavor, f.Name, StepSignupChoice)
	}

	return nil
}

// withoutAccountStep is the flavor an already signed-in user walks through.
func (f Flavor) withoutAccountStep() Flavor {
	g := f
	g.Steps = slices.DeleteFunc(slices.Clone(f.Steps), func(k StepKind) bool {
		return k == StepAccountInfo
	})
	g.CheckEmail = false
	return g
}

//go:embed flavors.yaml
var builtinFlavors []byte

// Catalog holds the flavors a server offers.
type Catalog struct {
	order   []string
	flavors map[string]Flavor
}

type catalogFile struct {
	Flavors []Flavor `yaml:"flavors"`
}

// LoadCatalog parses and validates flavor definitions.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFlavor, err)
	}
	if len(file.Flavors) == 0 {
		return nil, fmt.Errorf("%w: no flavors defined", ErrInvalidFlavor)
	}

	c := &Catalog{flavors: make(map[string]Flavor, len(file.Flavors))}
	for _, f := range file.Flavors {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.flavors[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate flavor %s", ErrInvalidFlavor, f.Name)
		}
		c.flavors[f.Name] = f
		c.order = append(c.order, f.Name)
	}
	return c, nil
}

// LoadCatalogFile reads flavor definitions from a YAML file.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open flavors: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// DefaultCatalog returns the built-in flavors.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(builtinFlavors))
	if err != nil {
		panic("wizard: built-in flavors are invalid: " + err.Error())
	}
	return c
}

// Lookup finds a flavor by name.
func (c *Catalog) Lookup(name string) (Flavor, error) {
	f, ok := c.flavors[name]
	if !ok {
		return Flavor{}, fmt.Errorf("%w: %q", ErrUnknownFlavor, name)
	}
	f.Steps = slices.Clone(f.Steps)
	return f, nil
}

// All returns the flavors in definition order.
func (c *Catalog) All() []Flavor {
	out := make([]Flavor, 0, len(c.order))
	for _, name := range c.order {
		f, _ := c.Lookup(name)
		out = append(out, f)
	}
	return out
}
