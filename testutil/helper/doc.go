// Package helper provides test helpers and domain fixtures shared by the
// package-level test suites.
package helper
