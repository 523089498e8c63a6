// Package asyncprops loads route data for a matched route chain and hands
// it to the rendering tree as props, on the server and on navigations.
//
// asyncprops sits between a router, which resolves a location to an
// ordered chain of routes with params, and a rendering engine, which turns
// per-route props into markup. Routes declare a Loader; asyncprops decides
// when each loader runs and how the results are merged.
//
// # Core Concepts
//
// A Route has a stable RouteID, an optional Loader and a Component. A
// Chain is the root-to-leaf list of matched routes with their Params:
//
//	app := &asyncprops.Route{ID: "/", Loader: loadCereals, Component: appView}
//	cereal := &asyncprops.Route{ID: "/:index", Loader: loadCereal, Component: cerealView}
//
// Loaders come in three shapes, all normalized to one contract (exactly one
// (err, data) completion per invocation):
//   - LoaderFunc: returns (data, err)
//   - CallbackLoader: calls a Complete callback, possibly later
//   - ChanLoader: delivers a Result on a channel
//
// # Navigation
//
// On each transition the Orchestrator computes the pivot: the shallowest
// position whose route or params changed. Positions above the pivot keep
// their data and are never reloaded. Loaders from the pivot to the leaf run
// concurrently, and their results are merged into the Store in one atomic
// step once all of them finish. Until then the engine keeps showing the
// previous screen.
//
// Every navigation gets a new Generation. If another navigation starts
// before one finishes, the older one is superseded: its loaders run to
// completion but their results are dropped and nothing is rendered.
//
// # Server Rendering and Hydration
//
// LoadOnServer loads every position of a chain and produces a Payload,
// embedded in the page as
//
//	<script>__ASYNC_PROPS__ = [ ... ];</script>
//
// The client parses it into a Handoff and passes it to the orchestrator
// with WithHydration. The first render is then seeded synchronously with no
// loader calls. A payload whose length does not match the chain is ignored
// and live loading takes over.
//
// Server serves whole pages this way over net/http; adapters/echo mounts it
// on Echo.
//
// # Errors
//
// Nothing here is fatal. A failing loader yields an errored position whose
// Props.Err holds a *LoaderError, while sibling positions load normally.
package asyncprops
