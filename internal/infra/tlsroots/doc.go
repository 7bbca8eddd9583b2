// Package tlsroots builds the TLS client configuration used to reach the
// roster API: the system trust store, optionally extended with a
// private CA bundle.
package tlsroots
