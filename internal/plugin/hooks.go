// Where: internal/plugin/hooks.go
// What: Lifecycle event registration and dispatch.
// Why: Bind framework lifecycle names to plugin operations in one table.
package plugin

import (
	"context"
	"errors"
	"fmt"
)

// Lifecycle events the plugin handles.
const (
	EventPackageInitialize          = "package:initialize"
	EventAfterCreateArtifacts       = "after:package:createDeploymentArtifacts"
	EventAfterMergeProviderResource = "after:aws:package:finalize:mergeCustomProviderResources"
	EventBeforeDeploy               = "before:deploy:deploy"
)

// ErrUnknownEvent is returned by Dispatch for unregistered events.
var ErrUnknownEvent = errors.New("unknown lifecycle event")

// Hook binds a lifecycle event to a handler.
type Hook struct {
	Event string
	Run   func(ctx context.Context) error
}

// Hooks returns the registration table in lifecycle order.
func (p *Plugin) Hooks() []Hook {
	install := func(ctx context.Context) error {
		_, err := p.InstallLayers(ctx)
		return err
	}
	transform := func(ctx context.Context) error {
		_, err := p.TransformTemplate(ctx)
		return err
	}
	return []Hook{
		{Event: EventPackageInitialize, Run: install},
		{Event: EventAfterCreateArtifacts, Run: transform},
		{Event: EventAfterMergeProviderResource, Run: transform},
		{Event: EventBeforeDeploy, Run: transform},
	}
}

// Events lists the registered event names in lifecycle order.
func (p *Plugin) Events() []string {
	hooks := p.Hooks()
	events := make([]string, 0, len(hooks))
	for _, hook := range hooks {
		events = append(events, hook.Event)
	}
	return events
}

// Dispatch runs the handler registered for event.
func (p *Plugin) Dispatch(ctx context.Context, event string) error {
	for _, hook := range p.Hooks() {
		if hook.Event == event {
			p.log.Debugf("Running hook %s", event)
			return hook.Run(ctx)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
}
