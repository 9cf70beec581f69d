package identity

// Claims carries the verified caller identity extracted from a bearer
// credential. The raw credential never travels past the auth module.
type Claims struct {
	UserID  int64  `json:"user_id"`
	Subject string `json:"subject"`
}
