package gatewayconfig

import (
	"fmt"

	gwerrors "github.com/aurabx/harmony/internal/errors"
)

// Validate runs struct-tag validation followed by the cross-referential
// invariants of spec.md §6 that no struct tag can express: name resolution
// across pipelines/networks/endpoints/middleware/backends, known middleware
// kinds, and route-prefix/AE-title collisions within a network.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return gwerrors.Wrap(gwerrors.KindConfig, component, "configuration failed field validation", err)
	}

	if len(c.Network) == 0 {
		return gwerrors.New(gwerrors.KindConfig, component, "at least one network must be declared")
	}
	for name, n := range c.Network {
		if n.HTTP.BindAddress == "" || n.HTTP.BindPort == 0 {
			return gwerrors.New(gwerrors.KindConfig, component, fmt.Sprintf("network %q: bind_address and a non-zero bind_port are required", name))
		}
		if n.EnableWireguard && n.Interface == "" {
			return gwerrors.New(gwerrors.KindConfig, component, fmt.Sprintf("network %q: interface is required when enable_wireguard is true", name))
		}
	}

	if c.Management.Enabled {
		if _, ok := c.Network[c.Management.Network]; !ok {
			return gwerrors.New(gwerrors.KindConfig, component, fmt.Sprintf("management.network %q does not resolve to a declared network", c.Management.Network))
		}
	}

	if len(c.Pipelines) == 0 {
		return gwerrors.New(gwerrors.KindConfig, component, "at least one pipeline must be declared")
	}

	endpointsByNetwork := map[string][]string{}

	for name, p := range c.Pipelines {
		for _, net := range p.Networks {
			if _, ok := c.Network[net]; !ok {
				return gwerrors.New(gwerrors.KindConfig, component, fmt.Sprintf("pipeline %q references undeclared network %q", name, net))
			}
			endpointsByNetwork[net] = append(endpointsByNetwork[net], p.Endpoints...)
		}
		for _, ep := range p.Endpoints {
			if _, ok := c.Endpoints[ep]; !ok {
				return gwerrors.New(gwerrors.KindConfig, component, fmt.Sprintf("pipeline %q references undeclared endpoint %q", name, ep))
			}
		}
		for _, mw := range p.Middleware {
			mwCfg, ok := c.Middleware[mw]
			if !ok {
				return gwerrors.New(gwerrors.KindConfig, component, fmt.Sprintf("pipeline %q references undeclared middleware %q", name, mw))
			}
			if !IsKnownMiddlewareKind(mwCfg.Type) {
				return gwerrors.New(gwerrors.KindConfig, component, fmt.Sprintf("middleware %q has unknown type %q", mw, mwCfg.Type))
			}
		}
		for _, b := range p.Backends {
			if _, ok := c.Backends[b]; !ok {
				return gwerrors.New(gwerrors.KindConfig, component, fmt.Sprintf("pipeline %q references undeclared backend %q", name, b))
			}
		}
	}

	return c.checkRouteCollisions(endpointsByNetwork)
}

// checkRouteCollisions enforces spec.md §6's "two endpoints in the same
// network must not declare colliding route prefixes (HTTP) or colliding AE
// titles (DIMSE)" invariant, over the endpoints each network's pipelines
// actually reach.
func (c *Config) checkRouteCollisions(endpointsByNetwork map[string][]string) error {
	for network, names := range endpointsByNetwork {
		seenPrefixes := map[string]string{}
		seenAETitles := map[string]string{}

		for _, name := range names {
			ep, ok := c.Endpoints[name]
			if !ok {
				continue
			}
			if prefix, ok := stringOption(ep.Options, "path_prefix"); ok {
				if existing, dup := seenPrefixes[prefix]; dup && existing != name {
					return gwerrors.New(gwerrors.KindConfig, component, fmt.Sprintf("network %q: endpoints %q and %q declare colliding path_prefix %q", network, existing, name, prefix))
				}
				seenPrefixes[prefix] = name
			}
			if ae, ok := stringOption(ep.Options, "ae_title"); ok {
				if existing, dup := seenAETitles[ae]; dup && existing != name {
					return gwerrors.New(gwerrors.KindConfig, component, fmt.Sprintf("network %q: endpoints %q and %q declare colliding ae_title %q", network, existing, name, ae))
				}
				seenAETitles[ae] = name
			}
		}
	}
	return nil
}

func stringOption(options map[string]any, key string) (string, bool) {
	v, ok := options[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
