// Package llm defines the provider abstraction for the reference oracle.
//
// A Provider wraps a hosted language model behind a uniform completion
// API. Concrete backends live in subpackages (e.g. gemini) and register
// themselves through a named factory so the backend can be swapped via
// configuration without touching callers.
package llm
