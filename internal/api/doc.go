// Package api implements the runtime HTTP service for a compiled device
// catalogue.
//
// The server receives the frozen device registry through Start, which makes
// *Server a catalogue.Service, and exposes:
//   - GET /api/v1/health: liveness and device count
//   - GET /api/v1/devices: device summaries (filters: type, action, aliases)
//   - GET /api/v1/devices/{id}: full device record with action bindings
//   - GET /api/v1/stats: registry statistics
//   - /proxy/{token}: camera stream proxy
//
// # Camera Proxy
//
// Every proxied URL written by the compiler ends in a random token. At Start
// each token is bound to the device's camera URI for the same stream slot
// (Stream1..Stream3). HTTP and HTTPS upstreams are reverse proxied with the
// device's auth credential; other schemes such as rtsp answer 501.
//
// # Lifecycle
//
//	server, err := api.New(deps)
//	err = server.Start(ctx, registry) // returns once listening
//	<-server.Done()                   // closed on ctx cancellation or Close
//
// The registry is frozen before Start, so handlers read it without further
// coordination. TLS is used when service.tls is enabled.
package api
