// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The index side is IndexBuilder and IndexService; the query side is
// Retriever, AnswerSynthesizer and the ServingContext that AskService
// swaps on reload.
package services
