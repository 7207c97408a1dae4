// Package registry provides the central "glue" for the component system.
//
// The Registry maps the string identifiers used in configuration sections
// (the `type` key) to constructors of compiled Go components, together with
// the capability tags (Component, Problem, Model, Loss) each type carries.
//
// Names resolve in two tiers. A name under the `pipegrid.` namespace is
// looked up among fully-qualified registrations; any other name is looked up
// among the short aliases exposed at the root. This lets configuration use
// both `pipegrid.text.SentenceTokenizer` and `SentenceTokenizer`.
//
// During application startup the registry is populated by modules, validated,
// and then treated as read-only.
package registry
