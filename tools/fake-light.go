//go:build ignore

// Fake-light serves the Elgato Key Light HTTP API with an in-memory light,
// for exercising keylightctl without hardware.
//
// Usage:
//
//	go run tools/fake-light.go              # listen on 127.0.0.1:9123
//	go run tools/fake-light.go :9200        # custom address
//
//	keylightctl status --url http://127.0.0.1:9123/
//	keylightctl toggle --url http://127.0.0.1:9123/
//
// It does not announce itself over mDNS, so discovery will not find it;
// point commands at it with --url.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/muurk/keylightctl/internal/keylight"
)

type fakeLight struct {
	mu     sync.Mutex
	status keylight.Status
}

func main() {
	addr := "127.0.0.1:9123"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}

	light := &fakeLight{
		status: keylight.Status{
			NumberOfLights: 1,
			Lights: []keylight.Light{
				{On: keylight.PowerOff, Brightness: 20, Temperature: 213},
			},
		},
	}

	http.HandleFunc("/"+keylight.LightsPath, light.handleLights)

	fmt.Printf("Fake Key Light listening on http://%s/\n", addr)
	fmt.Printf("Try: keylightctl status --url http://%s/\n", addr)

	if err := http.ListenAndServe(addr, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (f *fakeLight) handleLights(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:

	case http.MethodPut:
		var update keylight.Status
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.status = update
		if light, err := f.status.First(); err == nil {
			fmt.Printf("update: power=%s brightness=%d%% temperature=%d mired\n",
				light.On, light.Brightness, light.Temperature)
		}

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(f.status); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding response: %v\n", err)
	}
}
