// Package service provides the domain services of the gate core.
//
// Domain services contain pure business logic and orchestrate operations
// on domain models. They define interfaces for storage dependencies.
package service
