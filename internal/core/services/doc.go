// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Each pipeline returns one result type that reports every per-item
// failure. A Go error is returned only for invalid input or when the
// pipeline cannot continue at all.
package services
