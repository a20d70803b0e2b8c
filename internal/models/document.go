package models

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	prefixRe   = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	sepStartRe = regexp.MustCompile(`^[A-Za-z0-9]`)
)

// DocumentConfig describes one requirements document: a directory of item
// files sharing a UID prefix and a position in the document hierarchy.
type DocumentConfig struct {
	Prefix  string   `yaml:"prefix"`
	Parents []string `yaml:"parents,omitempty"`
	Digits  int      `yaml:"digits"`
	Sep     string   `yaml:"sep"`
}

// Validate checks the configuration invariants: the prefix is an uppercase
// identifier of at least two characters, digits is within 1–10, and the
// separator does not start with an alphanumeric character (which would make
// UIDs ambiguous to parse).
func (c DocumentConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Prefix,
			validation.Required,
			validation.Length(2, 0),
			validation.Match(prefixRe).Error("must start with an uppercase letter and contain only uppercase letters, digits, and underscores"),
		),
		validation.Field(&c.Digits, validation.Required, validation.Min(1), validation.Max(10)),
		validation.Field(&c.Sep,
			validation.By(func(any) error {
				if c.Sep != "" && sepStartRe.MatchString(c.Sep) {
					return validation.NewError("validation_sep", "must not start with an alphanumeric character")
				}
				return nil
			}),
		),
	)
}
