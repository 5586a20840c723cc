// Package password wraps bcrypt behind a small, configuration-checked
// hasher. The cost factor is fixed once at construction; the engine never
// hashes with ad-hoc parameters.
package password
