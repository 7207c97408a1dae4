// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the training lifecycle: loading the
// configuration, building and validating the pipeline, and driving batches
// through it. It is decoupled from any specific entrypoint like a CLI.
package app
