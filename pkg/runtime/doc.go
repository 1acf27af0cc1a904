// Package runtime implements the client-side module registry for hot
// updates: the module table mapping ids to exported bindings, the
// per-module lifecycle contexts with accept/dispose hooks, and the
// application of incoming update messages against live program state.
//
// The browser ships a JavaScript implementation of the same state
// machine (client/dist/runtime.js); this package is the reference
// implementation, used by headless clients and by the dev server's
// integration tests.
//
// Per module the lifecycle is Unregistered → Registered → Active, and on
// each hot update Active → Disposing → Active'. Any failure while
// executing a received body forces a full reload; the registry never
// continues with a half-applied update.
package runtime
