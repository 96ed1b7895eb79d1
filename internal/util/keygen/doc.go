// Package keygen generates secrets for add-ons.
//
// Passwords are drawn from crypto/rand and can be stored next to their bcrypt
// hash, the format most cluster tools (Argo CD, Grafana, basic auth) expect.
package keygen
