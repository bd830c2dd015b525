// Package stream connects to the exchange's websocket market and user data
// streams. A connection delivers raw frames in wire order; the stateless
// event decoder classifies each text frame into a typed event, answering
// protocol pings inline so long-lived connections are not timed out.
package stream
