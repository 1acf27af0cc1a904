package clientdist

import _ "embed"

// RuntimeJS is the browser hot-update runtime: the module registry, the
// update WebSocket client and the build-error overlay.
//
// It is served by the dev server at "/_lumen/client.js".
//go:embed runtime.js
var RuntimeJS []byte
