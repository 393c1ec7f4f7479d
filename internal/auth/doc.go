// Package auth provides authentication for the carelog-gateway MCP endpoint.
//
// # Authentication Methods
//
// The gateway accepts two credential forms:
//
//   - JWT Bearer tokens: signed with HS256 using the configured jwt_secret.
//     The subject claim carries the agent identity. Minted by the token
//     subcommand and verified by JWTVerifier.
//
//   - Static tokens: preconfigured opaque tokens bound to an agent name,
//     passed in the URL path (/mcp/<token>) or the token query parameter.
//     These live in the mcp package's TokenStore; this package only handles
//     the JWT form.
//
// # Token Management
//
// Mint and verify:
//
//	v := auth.NewJWTVerifier(secret, "carelog-gateway")
//	token, err := v.Generate("claude-code", 24*time.Hour)
//	agent, err := v.Verify(token)
//
// Verify rejects expired tokens (ErrExpiredToken), bad signatures and
// malformed tokens (ErrInvalidToken), and tokens without a subject claim
// (ErrMissingClaim). Only HS256 is accepted as a signing method.
package auth
