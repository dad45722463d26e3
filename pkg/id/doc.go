// Package id generates booking identifiers.
//
// # Format
//
// A booking id is the letter "B" followed by an 8 character lowercase hex
// token taken from a random (version 4) UUID, e.g. "B3f9a1c07". The token
// space is 2^32, so uniqueness is probabilistic. Callers that can look ids
// up pass an Exists func to Generator.Next, which retries on a collision.
//
// Usage
//
//	g := id.NewGenerator()
//	bookingID, err := g.Next(func(s string) (bool, error) { return ledgerHas(s) })
//	_ = id.Valid(bookingID) // true
package id
