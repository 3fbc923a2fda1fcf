// Package auth provides username/password authentication primitives:
// password hashing, bearer token issuance and validation, credential
// storage, and fiber HTTP handlers that tie them together.
//
// Credentials:
//   - CredentialStore maps an identity key to a CredentialRecord. Stores must
//     implement InsertIfAbsent atomically so concurrent signups for the same
//     key produce exactly one record. MemoryCredentialStore and
//     BunCredentialStore ship here; repository.PostgresCredentialStore uses pgx.
//   - PasswordHasher implementations (BcryptHasher, Argon2idHasher) salt every
//     hash. PooledHasher bounds how many hashes run at once.
//
// Tokens:
//   - TokenService issues HMAC signed JWTs whose subject is the identity key
//     and validates them into a TokenResult. Every failure is the same
//     Rejected outcome.
//
// Auther:
//   - Signup, Login and Resolve orchestrate the collaborators above. Unknown
//     identities and wrong passwords return the same ErrInvalidCredentials.
//   - ActivitySink receives signup, login and token rejection events. Sinks
//     run best-effort (errors are logged) and never see passwords.
//
// HTTP:
//   - RegisterAuthRoutes mounts POST /signup, POST /token, POST /login and
//     GET /users/me. ErrorHandler maps the error taxonomy to status codes.
package auth
