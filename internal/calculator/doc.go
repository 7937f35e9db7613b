// Package calculator holds the pure aggregation functions behind the
// dashboard and reports. Nothing here touches the store; every function takes
// a slice of entries and returns derived values.
package calculator
