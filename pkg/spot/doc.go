// Package spot is the client for the spot market REST API.
package spot
