// Package notify delivers short desktop notifications for light state
// changes.
//
// Notifications go through notify-send when it is installed; otherwise the
// message is printed to stdout so headless and minimal systems still see
// it. Delivery is best effort: a failed notification is logged, never
// surfaced as an error to the command that triggered it.
package notify
