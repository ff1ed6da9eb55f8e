// Package auth implements Google sign-in orchestration and the session-token
// lifecycle for the Probelab account service.
//
// The package reconciles a provider login with the local user record and
// keeps that decision consistent across a stateless, cookie-held session
// token. All cross-request state lives in the signed token; the lifecycle
// manager re-evaluates it on every request through a pure transition table
// (pkg/statemachine) whose side effects run in a separate effect pass.
//
// Main pieces:
//
//   - UserStore: four-plus-one primitive operations over the users table,
//     degrading to typed errors on connection failure.
//   - Resolver: maps a provider profile to a stored user, preferring the
//     external id over the email and linking the provider on first email
//     match.
//   - Dispatcher: first-time signup, deferred or immediate, with convergent
//     recovery when two concurrent logins race to create the same email.
//   - Lifecycle: the (state, event) transition table over token claims.
//   - TokenCodec: claims <-> signed JWT with a 30-day absolute and 24-hour
//     sliding expiry.
//   - Materialize: projects claims into the client-visible session.
//   - ResolveRedirect: post-login destination selection with an allow-list.
package auth
