// Package driving defines interfaces that external actors (CLI, MCP, TUI) use
// to interact with core services. These are the "driving" ports in hexagonal
// architecture terminology - they drive the application.
//
//   - AskService: Answers and retrieves against the served artifact
//   - IndexService: Builds the artifact from documents
//   - SettingsService: Reads and edits configuration
//
// Implementations of these interfaces live in internal/core/services.
package driving
