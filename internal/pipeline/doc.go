// Package pipeline ties the what-if components into request-level
// operations.
//
// Optimize solves an instance and stores the run. WhatIf answers a question
// against a stored optimal run:
//
//	request -> translate -> validate -> orchestrator -> reasons -> explain -> store
//
// Check runs the first two stages only.
//
// Every operation records Prometheus metrics and an OpenTelemetry span.
package pipeline
