// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package pipeline assembles configured components into an executable,
// priority-ordered chain.
//
// # Lifecycle
//
// A Pipeline is used in four phases, each exactly once except the last:
//
//  1. CreateProblem registers the single data source.
//  2. Build instantiates every pipeline section through the registry and
//     orders the stages by their unique priority.
//  3. Handshake walks the stages in order, checking each stage's declared
//     inputs against the definitions accumulated so far and merging its
//     outputs. Zero errors means the chain is consistent from source to sink.
//  4. Forward runs every stage over one batch. It is called once per batch.
//
// Configuration problems in phases 1 and 2 are counted, logged and skipped so
// that a single run reports every broken section at once. A non-zero count
// tells the caller to stop before the first batch. Failures raised by a
// component's own constructor are not configuration problems: they abort the
// build and are returned as errors.
//
// A Pipeline is not safe for concurrent use.
package pipeline
