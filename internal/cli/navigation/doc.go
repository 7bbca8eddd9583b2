// Package navigation is the route table of the front end.
//
// Routes under employees are gated on the session being authenticated;
// login is open. Unknown paths and the root fall through to the employee
// list. The router subscribes to session events and moves to login when
// the session is invalidated or logged out.
package navigation
