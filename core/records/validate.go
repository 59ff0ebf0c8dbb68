package records

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type Checks struct {
	errs []error
}

func (c *Checks) Required(field, value string) *Checks {
	if strings.TrimSpace(value) == "" {
		c.errs = append(c.errs, fmt.Errorf("%s is required", field))
	}
	return c
}

// OneOf accepts an empty value; pair it with Required when the field is mandatory.
func (c *Checks) OneOf(field, value string, allowed ...string) *Checks {
	if value != "" && !slices.Contains(allowed, value) {
		c.errs = append(c.errs, fmt.Errorf("%s must be one of %s", field, strings.Join(allowed, ", ")))
	}
	return c
}

func (c *Checks) Check(ok bool, msg string) *Checks {
	if !ok {
		c.errs = append(c.errs, errors.New(msg))
	}
	return c
}

func (c *Checks) Err() error {
	return errors.Join(c.errs...)
}

func Or(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func CleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
