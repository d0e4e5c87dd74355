// Package cookie reads and writes HTTP cookies with shared attributes and
// optional HMAC-SHA256 signing.
//
//	m := cookie.FromConfig(cookie.Config{
//		Secret: os.Getenv("COOKIE_SECRET"),
//		Secure: true,
//	})
//	m.Write(w, "locale", "ru", 365*24*3600)
//	locale, err := m.Read(r, "locale")
//
// Read and Write sign values when a secret of at least MinSecretLen bytes is
// configured and fall back to plain cookies otherwise. A tampered signed
// cookie reads as ErrBadSig.
package cookie
