// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential handling and token generation utilities.

# Secrets

Passwords travel through the service as Secret values:

	var pw auth.Secret = "hunter2hunter2"
	fmt.Println(pw)          // [REDACTED]
	json.Marshal(pw)         // "***redacted***"
	pw.Reveal()              // raw value, use sparingly

Secret also implements slog.LogValuer so structured logs never carry the
plaintext.

# Password Hashing

Stored passwords are bcrypt hashes:

	hash, err := auth.HashPassword(pw)
	err = auth.CheckPassword(hash, pw)  // nil or ErrPasswordMismatch

bcrypt only looks at the first 72 bytes, so longer passwords are rejected
with ErrPasswordTooLong instead of being silently truncated.

# Session Tokens

Running signup wizards are addressed by random 24-byte tokens:

	token, err := auth.GenerateSessionToken()

Tokens are URL-safe base64 encoded without padding.
*/
package auth
