package ratingscale

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrTooManyOptions = fmt.Errorf("a scale can have at most %d options", MaxRatingOptions)
	ErrTooFewOptions  = fmt.Errorf("a scale needs at least %d options", MinRatingOptions)
	ErrEmptyLabel     = errors.New("rating option label must not be empty")
	ErrOptionIndex    = errors.New("rating option index out of range")
)

// Editor edits a scale in display order and enforces the option bounds.
type Editor struct {
	options []RatingOption
}

// NewEditor starts from a copy of options, or from the default scale when empty.
func NewEditor(options []RatingOption) *Editor {
	if len(options) == 0 {
		return &Editor{options: DefaultScale()}
	}
	cp := make([]RatingOption, len(options))
	copy(cp, options)
	return &Editor{options: cp}
}

// EditPersisted starts an editor from a persisted scale.
func EditPersisted(persisted Persisted) *Editor {
	return &Editor{options: Normalize(persisted)}
}

func (e *Editor) Len() int {
	return len(e.options)
}

// Options returns a copy of the options keyed by position.
func (e *Editor) Options() []RatingOption {
	out := make([]RatingOption, len(e.options))
	for i, o := range e.options {
		out[i] = RatingOption{Key: strconv.Itoa(i + 1), Label: o.Label}
	}
	return out
}

// Add appends an option. The label may be blank while editing; Validate rejects it.
func (e *Editor) Add(label string) error {
	if len(e.options) >= MaxRatingOptions {
		return ErrTooManyOptions
	}
	e.options = append(e.options, RatingOption{Label: label})
	return nil
}

func (e *Editor) Remove(i int) error {
	if i < 0 || i >= len(e.options) {
		return ErrOptionIndex
	}
	if len(e.options) <= MinRatingOptions {
		return ErrTooFewOptions
	}
	e.options = append(e.options[:i], e.options[i+1:]...)
	return nil
}

func (e *Editor) Update(i int, label string) error {
	if i < 0 || i >= len(e.options) {
		return ErrOptionIndex
	}
	e.options[i].Label = label
	return nil
}

// Move relocates the option at from to position to.
func (e *Editor) Move(from, to int) error {
	if from < 0 || from >= len(e.options) || to < 0 || to >= len(e.options) {
		return ErrOptionIndex
	}
	o := e.options[from]
	e.options = append(e.options[:from], e.options[from+1:]...)
	e.options = append(e.options[:to], append([]RatingOption{o}, e.options[to:]...)...)
	return nil
}

func (e *Editor) Validate() error {
	return Validate(e.options)
}

// Serialize validates the scale and returns its persisted form.
func (e *Editor) Serialize() (Persisted, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return Serialize(e.options), nil
}

// Validate checks the option count bounds and that every label is non-blank.
func Validate(options []RatingOption) error {
	if len(options) > MaxRatingOptions {
		return ErrTooManyOptions
	}
	if len(options) < MinRatingOptions {
		return ErrTooFewOptions
	}
	for i, o := range options {
		if strings.TrimSpace(o.Label) == "" {
			return fmt.Errorf("option %d: %w", i+1, ErrEmptyLabel)
		}
	}
	return nil
}
