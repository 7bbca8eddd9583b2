// Package storage holds the client's single persisted value: the access
// token.
//
// Backends:
//
//   - memory: process-local, nothing survives exit (storage/memory)
//   - file:   one sealed file under the state dir, mode 0600 (FileStore)
//   - badger: one key in an embedded Badger database (BadgerStore)
//
// Every backend satisfies Store, whose operations never fail from the
// caller's point of view. I/O problems are logged and a Read that cannot
// complete reports the token as absent, which is the same as logged out.
package storage
