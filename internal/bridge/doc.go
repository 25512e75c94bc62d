// Package bridge exposes a discovery Registry to other local processes
// over HTTP.
//
// The bridge is the process boundary for discovery state: scripts, desk
// controllers, and other tools that want the current device list should
// not each have to run their own avahi-browse subprocess. One
// long-running daemon keeps the Registry current and the bridge serves
// it out, as plain JSON for snapshots and as a WebSocket feed for live
// changes.
//
// # Endpoints
//
//	GET /api/devices   JSON array of the current registry snapshot
//	GET /api/events    WebSocket feed of registry change events
//	GET /healthz       liveness probe
//
// # Event Feed
//
// Each registry change is pushed to every connected subscriber as one
// JSON text message:
//
//	{"kind":"added","device":{"name":"Key Light Left","url":"http://192.168.0.92:9123/"}}
//
// The server pings subscribers on an interval and drops connections
// that stop answering with pongs. A subscriber that cannot keep up with
// the event rate is disconnected rather than allowed to stall delivery
// to the others. Reconnecting clients should re-read /api/devices to
// resynchronize before consuming the feed again.
//
// # Usage Example
//
//	registry := discovery.NewRegistry(logger)
//	daemon := discovery.NewDaemon(discovery.DefaultDaemonConfig(), registry, logger)
//	if err := daemon.Start(ctx); err != nil {
//	    return err
//	}
//
//	srv := bridge.New(bridge.Config{ListenAddr: "127.0.0.1:9124"}, registry, daemon.Events(), logger)
//	if err := srv.Run(ctx); err != nil {
//	    return err
//	}
//
// # Graceful Shutdown
//
// Run blocks until its context is cancelled, then disconnects every
// event subscriber, stops accepting requests, and waits briefly for
// in-flight handlers before returning.
//
// The bridge binds to loopback by default and serves plain HTTP.
package bridge
