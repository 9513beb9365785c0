// Package config supplies database connection configuration for the
// postgresengine test suites, one constructor per supported driver.
package config
