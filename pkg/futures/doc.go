// Package futures is the client for the USD-margined futures REST API.
package futures
