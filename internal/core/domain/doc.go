// Package domain defines the core domain models for the roster client.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling. This package contains:
//
//   - Employee: the record exposed by the remote directory API
//   - Credential: the bearer token issued by login, and its display claims
//   - Error: the client error taxonomy surfaced to views
//
// Nothing here talks to the network; classification of transport
// failures into error kinds lives in the service layer.
package domain
