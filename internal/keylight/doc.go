// Package keylight provides an HTTP client for controlling Elgato Key Light devices.
//
// This package implements a client for the device's local HTTP API, enabling
// reading light status and updating power, brightness, and color temperature.
// Brightness and temperature are range-checked types so invalid values are
// rejected at flag parsing, JSON decoding, and construction rather than at the
// device.
//
// # Wire Format
//
// The device exposes its lights at GET/PUT {base}/elgato/lights:
//
//	{"numberOfLights":1,"lights":[{"on":1,"brightness":20,"temperature":213}]}
//
// Power is 0/1, brightness is a percentage in [0, 100], and temperature is in
// device mireds, [143, 344].
//
// # Usage Example
//
//	// Base URL comes from discovery (discovery.Device.URL)
//	client := keylight.NewClient("http://192.168.0.92:9123/")
//
//	status, err := client.Status(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Toggle the first light
//	state, err := client.Toggle(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("light is now %s\n", state)
//
// Relative adjustments saturate at the range bounds:
//
//	// +10% brightness, capped at 100
//	newValue, err := client.AdjustBrightness(ctx, 10)
//
// # Error Handling
//
// Errors are typed (*DeviceError) and classified as network, HTTP, parse, or
// validation failures. Use the Is* helpers or errors.As to branch on the
// category; IsRetryable reports whether retrying could help.
//
// # Thread Safety
//
// Client instances are safe for concurrent use.
package keylight
