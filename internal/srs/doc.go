// Package srs implements the spaced-repetition review policy: the level
// transition applied after each answer, the ordering rule that brings weak
// cards back sooner, and the canonical answer-matching rule. Everything in
// this package is a pure function over its inputs; all persistence and
// sequencing live in the session and store layers.
package srs
