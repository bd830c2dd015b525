// Package rest implements the HTTP transport for the exchange API: request
// signing, authenticated and public calls, and two-tier response decoding
// into typed results or classified errors.
package rest
