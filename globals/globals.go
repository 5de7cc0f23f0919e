package globals

// Context keys
type ContextKey string

const ClaimsKey ContextKey = "claims"
