//go:build ignore

// Watch-events tails a running bridge's WebSocket event feed, for checking
// what `keylightctl serve` publishes as lights come and go.
//
// Usage:
//
//	keylightctl serve &
//	go run tools/watch-events.go                 # ws://127.0.0.1:9124/api/events
//	go run tools/watch-events.go 127.0.0.1:8080  # custom bridge address
//
// Add/remove events are printed one per line. The server pings periodically;
// the read loop answers the pongs, so the connection stays up until the
// bridge shuts down or the process is interrupted.
package main

import (
	"fmt"
	"os"

	"github.com/gorilla/websocket"

	"github.com/muurk/keylightctl/internal/discovery"
)

func main() {
	addr := "127.0.0.1:9124"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}
	url := fmt.Sprintf("ws://%s/api/events", addr)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to %s: %v\n", url, err)
		fmt.Fprintln(os.Stderr, "Is 'keylightctl serve' running?")
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("Connected to %s (Ctrl-C to stop)\n", url)

	for {
		var event discovery.Event
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				fmt.Println("Feed closed by server")
				return
			}
			fmt.Fprintf(os.Stderr, "Error reading feed: %v\n", err)
			os.Exit(1)
		}

		switch event.Kind {
		case discovery.EventAdded:
			fmt.Printf("+ %s\n", event.Device)
		case discovery.EventRemoved:
			fmt.Printf("- %s\n", event.Device)
		}
	}
}
