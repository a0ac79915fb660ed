// Package retry provides bounded retry with exponential backoff for
// transient failures.
//
// The [Do] function invokes an operation up to a configured number of
// attempts, sleeping between attempts with a strictly doubling delay.
// It is used for remote calls that may fail transiently, such as secret
// retrieval while a controller is still starting up.
package retry
