// Package apiv1 holds the request and response messages of the settleup.v1
// API. Messages are JSON encoded; money travels as decimal strings and
// timestamps as Unix seconds.
package apiv1
