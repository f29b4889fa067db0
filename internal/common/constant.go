package common

// TokenCookieName is the cookie that carries the session JWT.
const TokenCookieName = "token"

// AuthorizationHeaderName carries "Bearer <token>" for non-browser clients.
const AuthorizationHeaderName = "Authorization"
