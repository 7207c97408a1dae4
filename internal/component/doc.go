// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package component defines the contract every pipeline stage fulfils and
// the capability tags that classify stages.
//
// A Component declares the data slots it reads (inputs) and writes (outputs)
// and exposes a Forward step over the shared DataDict. On top of that, a
// component may be tagged as a Problem (the single data source of a pipeline),
// a Model (trainable, collected for optimisers) and/or a Loss (a root for
// backpropagation). Tags are declared when a type is registered, so
// classifying a stage is a bit test rather than an inspection of its Go type.
//
// Base implements the bookkeeping shared by all components: the name, the
// optional `streams` remapping of slot keys, and the default handshake rules
// that compare declared inputs against the accumulated DefinitionSet.
package component
