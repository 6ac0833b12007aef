package autocrud

// LoginResult defines a public type used by autocrud APIs.
//
// LoginResult instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginResult struct {
	Token   string `json:"token"`
	Subject Record `json:"subject"`
}

// AuthResult carries the identity resolved by the auth guard for a validated
// bearer token. It is injected into the request context so downstream
// operations (and future authorization layers) can read the subject.
type AuthResult struct {
	Subject string
}

// VerifyFunc is the credential predicate supplied at build time through
// [Builder.WithLoginVerifier]. It receives the submitted credentials and the
// record located via the configured login fields and reports whether the
// credentials are acceptable. A nil verifier accepts any record the login
// fields matched.
type VerifyFunc func(credentials Record, matched Record) bool

// DeleteManyResult defines a public type used by autocrud APIs.
//
// DeleteManyResult instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type DeleteManyResult struct {
	Requested int `json:"requested"`
	Deleted   int `json:"deleted"`
}
