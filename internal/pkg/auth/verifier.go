package auth

// Verifier checks a bearer credential and yields the user it was issued to.
type Verifier interface {
	ParseToken(token string) (int64, error)
	Name() string
}
