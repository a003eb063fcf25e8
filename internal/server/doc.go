// Package server is the optional frame mirror: a plain HTTP server with a
// websocket endpoint that streams every rendered 20x2 frame as JSON to
// connected viewers and accepts simulated button presses from them.
//
// # Protocol
//
// The daemon pushes one text message per display refresh:
//
//	{"lines": ["Ты справишься!      ", "                    "]}
//
// Viewers may send press messages at any time:
//
//	{"press": "short"}   primary button short press (toggle mode)
//	{"press": "long"}    primary button long press (cycle category)
//	{"press": "weather"} secondary button (toggle weather)
//
// Presses are converted into intents on the engine's queue; they go
// through exactly the same path as physical GPIO presses.
//
// # Discovery
//
// With advertising enabled the endpoint is announced over mDNS as a
// "_markoshka._tcp" service, so a viewer on the same LAN can find the
// display without configuration.
//
// The mirror is strictly best-effort: it never blocks the main loop, a
// slow or dead viewer is dropped, and a failed startup only disables the
// mirror.
package server
