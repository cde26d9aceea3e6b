// Package canon provides canonical JSON encoding and domain-separated hashing
// for what-if constraint sets.
//
// Canonical form follows RFC 8785:
//   - object keys sorted by UTF-16 code units
//   - no HTML escaping, U+2028/U+2029 emitted literally
//   - strings NFC normalized at the serialization boundary
//   - numbers restricted to integers (integral floats are accepted and
//     rendered without a fraction)
//
// Unlike a general JSON encoder, null is allowed: absent constraint fields
// are part of the flat constraint record and must hash the same way they
// serialize across the oracle boundary.
package canon
