// Package auth provides the bearer token middleware of the api.
//
// Tokens are HS256 signed JWTs whose subject is the user id. The middleware
// rejects requests without a valid token with 401 and stores the user id of
// valid ones under auth.LocalsUserID, where the permission gates of the
// internal/auth package pick it up.
package auth
