// Package riza is a request/response client for the Riza code execution API.
//
// The client creates, fetches, updates and executes remote tools and runs
// ad-hoc code. Every call is bounded by a per-call timeout; any failure
// (transport, non-2xx status, undecodable body, expiry) is reported as a
// *RemoteServiceError.
package riza
