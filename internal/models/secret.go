package models

// SecretCredential is an opaque PIN or OTP. It lives only for the
// duration of one submission attempt and must never end up in a log
// line, which is why every textual rendering is redacted.
type SecretCredential string

// String implements fmt.Stringer with a redacted value so the secret
// cannot leak through formatted output.
func (SecretCredential) String() string { return "****" }

// MarshalJSON redacts the secret in any serialized form.
func (SecretCredential) MarshalJSON() ([]byte, error) { return []byte(`"****"`), nil }

// Raw exposes the underlying value for the single outbound request that
// carries it to the ledger.
func (s SecretCredential) Raw() string { return string(s) }
