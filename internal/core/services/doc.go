// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no external dependencies beyond uuid
// generation and errgroup fan-out.
package services
