// Package fakeapi is an in-memory employee API for tests.
//
// It speaks the same JSON as the real backend under /api: POST
// /api/auth/login issues HS256 tokens, and /api/employees requires a
// valid bearer token, answering 403 otherwise. Tests can add latency,
// force statuses per route and revoke issued tokens.
package fakeapi
