// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from
// various sources.
//
// A configuration consists of problem sections and an ordered list of
// pipeline sections. Every section is a name plus a set of cty-valued
// parameters; the registry and the pipeline builder interpret them.
// Concrete loaders, such as the HCL one, live in separate packages.
package config
