package auth

// TokenValidator validates tokens without tying callers to a specific
// signing implementation.
type TokenValidator interface {
	Validate(tokenString string) TokenResult
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) TokenResult

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) TokenResult {
	if f == nil {
		return Rejected()
	}
	return f(tokenString)
}
