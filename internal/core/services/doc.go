// Package services implements the core use cases: ingestion, retrieval
// and grounded chat. Services depend only on the driven ports and are
// exposed to the outer surfaces through the driving interfaces.
package services
