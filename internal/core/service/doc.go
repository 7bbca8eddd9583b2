// Package service holds the client's two stateful components.
//
//   - SessionManager owns the access token. It logs in and out, answers
//     IsAuthenticated, and tells subscribers when the session changes or
//     is invalidated by a rejected request.
//   - Controller builds per-view state machines (ListView, DetailView,
//     FormView) that fetch employees through an EmployeeAPI and move
//     Idle -> Loading -> Loaded | Failed.
//
// Each view instance tracks a cycle number. A fetch result is applied
// only while its cycle is current and the view is still Loading, so a
// response that loses to the view timeout, a reload, or Exit is dropped.
//
// Both components classify failures into domain.Error once, at this
// boundary. The HTTP layer below returns raw errors.
package service
