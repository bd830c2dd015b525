// Package core contains the protocol-level building blocks shared by the
// REST and streaming clients: credentials, the error taxonomy returned by
// the exchange, the insertion-ordered form encoder used for signed request
// bodies, and kline interval identifiers.
package core
