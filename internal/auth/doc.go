// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

/*
Package auth authenticates API callers with HS256 JWT bearer tokens.

The token's sub claim is the learner id served by the /api/v1/me routes. The
optional roles claim feeds the authorization policy in package authz; tokens
without roles are treated as learner tokens.

Authentication is only installed when security.auth_mode is "jwt". In "none"
mode every route is open and the learner id always comes from the URL.

	jwtManager, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTIssuer)
	if err != nil {
	    return err
	}
	r.Use(auth.NewMiddleware(jwtManager).Authenticate)
*/
package auth
