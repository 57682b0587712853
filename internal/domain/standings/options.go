package standings

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// TieBreak selects how teams level on points are ordered.
type TieBreak string

const (
	// TieBreakFull orders by points, goal difference, goals for, then name.
	TieBreakFull TieBreak = "full"
	// TieBreakSimple orders by points, then name.
	TieBreakSimple TieBreak = "simple"
)

// DefaultLocale is the collation used for team and player names.
var DefaultLocale = language.Italian

type options struct {
	tieBreak TieBreak
	locale   language.Tag
}

type Option func(*options)

func WithTieBreak(mode TieBreak) Option {
	return func(o *options) {
		if mode == TieBreakFull || mode == TieBreakSimple {
			o.tieBreak = mode
		}
	}
}

func WithLocale(tag language.Tag) Option {
	return func(o *options) {
		if tag != language.Und {
			o.locale = tag
		}
	}
}

func newOptions(opts []Option) options {
	o := options{tieBreak: TieBreakFull, locale: DefaultLocale}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func ParseTieBreak(value string) (TieBreak, error) {
	switch TieBreak(strings.ToLower(strings.TrimSpace(value))) {
	case "", TieBreakFull:
		return TieBreakFull, nil
	case TieBreakSimple:
		return TieBreakSimple, nil
	default:
		return "", fmt.Errorf("unknown tie-break mode %q (want full or simple)", value)
	}
}

func ParseLocale(value string) (language.Tag, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultLocale, nil
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", value, err)
	}
	return tag, nil
}
