package simulation

import (
	"math/rand"

	"github.com/Hussnain311/Traffic-Load-Balancer/event"
	"github.com/Hussnain311/Traffic-Load-Balancer/status"
	"github.com/Hussnain311/Traffic-Load-Balancer/system"
	"github.com/sirupsen/logrus"
)

// Option customizes a Simulation at construction
type Option func(*options)

type options struct {
	scene    system.Scene
	wallet   system.Wallet
	rng      *rand.Rand
	log      logrus.FieldLogger
	status   *status.Registry
	handlers []event.Handler
}

// WithScene sets the scene collaborator that instantiates vehicle bodies
func WithScene(scene system.Scene) Option {
	return func(o *options) { o.scene = scene }
}

// WithWallet sets the wallet credited by tolls
func WithWallet(wallet system.Wallet) Option {
	return func(o *options) { o.wallet = wallet }
}

// WithRand overrides the seeded random source
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// WithStatus shares a metric registry
func WithStatus(reg *status.Registry) Option {
	return func(o *options) { o.status = reg }
}

// WithHandler registers an outbound event handler
// Handlers run inside Tick while the simulation lock is held and must not call back into it
func WithHandler(h event.Handler) Option {
	return func(o *options) { o.handlers = append(o.handlers, h) }
}
