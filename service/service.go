package service

import "github.com/sirupsen/logrus"

// Service is a long-lived observer or endpoint attached to a running simulation
//
// Lifecycle:
//  1. Construction
//  2. Init(log) - bind the logger, validate settings
//  3. Start() - launch background goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources; must be idempotent
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must start before this one
	Dependencies() []string

	Init(log logrus.FieldLogger) error
	Start() error
	Stop() error
}
