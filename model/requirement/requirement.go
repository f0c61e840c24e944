package requirement

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/arbiter/service/parameter"
)

// Kind identifies the active case of a Descriptor
type Kind string

const (
	KindNames Kind = "names" //explicit resource names
	KindLabel Kind = "label" //every resource matching a label expression
	KindCount Kind = "count" //any N resources matching a label
)

// ErrAmbiguous is returned when more than one requirement form is defined
var ErrAmbiguous = errors.New("Only label, groovy expression, or resources can be defined, not more than one.")

// ErrEmpty is returned when no requirement form is defined
var ErrEmpty = errors.New("requirement: nothing defined")

// Descriptor represents a job's declared, still templated, resource need.
// Exactly one case is active; use Names, Label or Count to build one.
type Descriptor struct {
	Kind     Kind     `json:"kind" yaml:"kind"`
	Names    []string `json:"names,omitempty" yaml:"names,omitempty"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Quantity string   `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	// Variable names the env variable that receives the granted resource names, optional
	Variable string `json:"variable,omitempty" yaml:"variable,omitempty"`
}

// Names creates a descriptor requesting explicit resources
func Names(names ...string) *Descriptor {
	return &Descriptor{Kind: KindNames, Names: splitNames(names...)}
}

// Label creates a descriptor requesting every resource matching expr
func Label(expr string) *Descriptor {
	return &Descriptor{Kind: KindLabel, Label: strings.TrimSpace(expr)}
}

// Count creates a descriptor requesting quantity resources matching label;
// an empty label selects from the whole pool
func Count(label string, quantity string) *Descriptor {
	return &Descriptor{Kind: KindCount, Label: strings.TrimSpace(label), Quantity: strings.TrimSpace(quantity)}
}

// FromFields builds a descriptor from the flat, form-style representation where
// each case is a separate field. A count is only meaningful with a label or on its own.
func FromFields(names, label, quantity string) (*Descriptor, error) {
	names, label, quantity = strings.TrimSpace(names), strings.TrimSpace(label), strings.TrimSpace(quantity)
	hasQuantity := quantity != "" && quantity != "0"
	defined := 0
	for _, ok := range []bool{names != "", label != "", hasQuantity} {
		if ok {
			defined++
		}
	}
	switch {
	case names != "" && defined > 1:
		return nil, ErrAmbiguous
	case names != "":
		return Names(names), nil
	case hasQuantity:
		return Count(label, quantity), nil
	case label != "":
		return Label(label), nil
	}
	return nil, ErrEmpty
}

// Validate checks the active case is consistent
func (d *Descriptor) Validate() error {
	if d == nil {
		return ErrEmpty
	}
	switch d.Kind {
	case KindNames:
		if d.Label != "" || d.Quantity != "" {
			return ErrAmbiguous
		}
		if len(d.Names) == 0 {
			return ErrEmpty
		}
	case KindLabel:
		if len(d.Names) > 0 || d.Quantity != "" {
			return ErrAmbiguous
		}
		if d.Label == "" {
			return ErrEmpty
		}
	case KindCount:
		if len(d.Names) > 0 {
			return ErrAmbiguous
		}
		if d.Quantity == "" {
			return ErrEmpty
		}
	default:
		return fmt.Errorf("requirement: unsupported kind %q", d.Kind)
	}
	return nil
}

// Fields returns the flat, form-style representation
func (d *Descriptor) Fields() (names, label, quantity string) {
	return strings.Join(d.Names, " "), d.Label, d.Quantity
}

// Resolve substitutes placeholders with env values
func (d *Descriptor) Resolve(env map[string]string) (*Resolved, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	ret := &Resolved{Kind: d.Kind, Variable: d.Variable}
	switch d.Kind {
	case KindNames:
		for _, name := range d.Names {
			expanded, unresolved := parameter.Expand(name, env)
			ret.Unresolved = append(ret.Unresolved, unresolved...)
			ret.Names = append(ret.Names, strings.Fields(expanded)...)
		}
		if len(ret.Names) == 0 && len(ret.Unresolved) == 0 {
			return nil, fmt.Errorf("%w: %v resolved to no resource names", ErrEmpty, strings.Join(d.Names, " "))
		}
	case KindLabel, KindCount:
		expanded, unresolved := parameter.Expand(d.Label, env)
		ret.Unresolved = append(ret.Unresolved, unresolved...)
		ret.Label = strings.TrimSpace(expanded)
		if d.Kind == KindLabel {
			break
		}
		quantity, unresolved := parameter.Expand(d.Quantity, env)
		ret.Unresolved = append(ret.Unresolved, unresolved...)
		if len(unresolved) > 0 {
			break
		}
		count, err := strconv.Atoi(strings.TrimSpace(quantity))
		if err != nil || count < 0 {
			return nil, fmt.Errorf("requirement: invalid quantity %q", quantity)
		}
		ret.Count = count
	}
	return ret, nil
}

// Resolved represents a descriptor after placeholder substitution for a single build
type Resolved struct {
	Kind       Kind
	Names      []string
	Label      string
	Count      int //0 means every matching resource
	Variable   string
	Unresolved []string
}

// IsResolved returns true if no placeholder is left
func (r *Resolved) IsResolved() bool {
	return len(r.Unresolved) == 0
}

// String returns a human-readable form
func (r *Resolved) String() string {
	switch r.Kind {
	case KindNames:
		return "[" + strings.Join(r.Names, ", ") + "]"
	case KindCount:
		if r.Label == "" {
			return fmt.Sprintf("%d of any", r.Count)
		}
		return fmt.Sprintf("%d of %s", r.Count, r.Label)
	}
	return r.Label
}

func splitNames(names ...string) []string {
	var result []string
	for _, name := range names {
		result = append(result, strings.Fields(name)...)
	}
	return result
}
