// Package services implements the core use cases of the engine:
// ingestion, retrieval, routing, context assembly, conversation state
// and chat orchestration. Services depend only on ports; all I/O lives
// behind driven adapters.
package services
