// Package provider implements translation backends for the pipeline.
package provider

import "github.com/hytale-tools/modlate"

// Provider is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type Provider = modlate.Provider

// Request is an alias to the main package type.
type Request = modlate.ProviderRequest
