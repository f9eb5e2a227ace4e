package core

import "context"

// Module is a unit of capability that participates in the app lifecycle.
//
// Configure runs for every module before any Start, in dependency order,
// so a module may read from the container whatever its dependencies put
// there. Stop runs in reverse order and only for modules that started.
type Module interface {
	Name() string
	// DependsOn lists module names that must be configured and started first.
	DependsOn() []string
	Configure(c Container) error
	// Start must not block; long-running work belongs in a goroutine.
	Start(ctx context.Context, c Container) error
	Stop(ctx context.Context, c Container) error
}
