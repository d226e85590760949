package datatree

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// errPreviouslyUnseen is the internal control-flow signal raised by
// simulate when it leaves known territory. It never escapes the
// package boundary: Rewrite and GenerateNovelPrefix both catch it.
var errPreviouslyUnseen = errors.New("datatree: previously unseen behaviour")

type flakyCause uint8

const (
	causeInconsistentGeneration flakyCause = iota
	causeInconsistentResults
)

var (
	errInconsistentGeneration = errors.New("nondeterministic data generation")
	errInconsistentResults    = errors.New("nondeterministic test result")
)

// errTreeExhausted is returned by GenerateNovelPrefix when called
// against a fully exhausted tree, violating its stated precondition.
var errTreeExhausted = errors.New("datatree: tree is exhausted, no novel prefix exists")

// errNovelPrefixSearchExhausted guards the acceptance-sampling loop in
// GenerateNovelPrefix against a practically unreachable case: no draw
// sequence sampled within the attempt budget left known territory.
var errNovelPrefixSearchExhausted = errors.New("datatree: novel prefix search exceeded its attempt budget")

// FlakyError is raised whenever a live recording contradicts the
// tree's existing record in a way attributable to test nondeterminism,
// either in how the data was generated (InconsistentGeneration) or in
// what it concluded (InconsistentResults).
type FlakyError struct {
	cause flakyCause
	err   error
}

func newInconsistentGeneration(msg string) error {
	return &FlakyError{cause: causeInconsistentGeneration, err: pkgerrors.WithMessage(errInconsistentGeneration, msg)}
}

func newInconsistentResults(msg string) error {
	return &FlakyError{cause: causeInconsistentResults, err: pkgerrors.WithMessage(errInconsistentResults, msg)}
}

func (e *FlakyError) Error() string { return e.err.Error() }
func (e *FlakyError) Unwrap() error { return e.err }

// IsInconsistentGeneration reports whether this is the generation
// flavour of Flaky (wrong bit width, forced/free mismatch, drawing
// past a recorded conclusion, splitting a forced index).
func (e *FlakyError) IsInconsistentGeneration() bool {
	return e.cause == causeInconsistentGeneration
}

// IsInconsistentResults reports whether this is the result flavour of
// Flaky (a full replay reached the same terminal node but produced a
// different conclusion).
func (e *FlakyError) IsInconsistentResults() bool {
	return e.cause == causeInconsistentResults
}
