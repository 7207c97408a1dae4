// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package data defines the contracts that flow between pipeline components:
// the Definition of a single named data slot, the DefinitionSet that the
// handshake grows as components export their outputs, and the DataDict that
// carries actual values through one batch pass.
//
// Why declare slots separately from their values?
//
// A Definition describes what a slot will hold (its dimensions, the semantic
// types it may carry, a human description) without holding any data. This lets
// the whole chain of components be checked once, before the first batch is
// loaded, instead of discovering a missing or mis-shaped value halfway through
// a long training run. Semantic types are expressed as cty.Type values, so a
// definition can be written in configuration using the same type expressions
// as any other HCL type constraint (`string`, `list(number)`, `map(string)`).
package data
