// Package auth guards the editor and write endpoints with HTTP basic
// authentication against argon2id hashes from the configuration.
package auth
