// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// The retrieval pipeline depends only on these narrow contracts; concrete
// embedding, LLM, vector-store and persistence backends are injected at
// construction time and can be substituted without touching pipeline logic.
package driven
