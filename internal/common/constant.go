package common

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "pagetalk_session"

// AuthorizationHeaderName is the HTTP header that may carry the session
// token as "Bearer <token>" instead of the cookie.
const AuthorizationHeaderName = "Authorization"

// ConsolePathMarker is the path substring that marks the authenticated
// management area.
const ConsolePathMarker = "console"
