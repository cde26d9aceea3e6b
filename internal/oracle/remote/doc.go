// Package remote talks to an optimization service over HTTP.
//
// The service exposes two endpoints:
//
//	POST {base}/solve    body: instance          reply: oracle.SolveOutput
//	POST {base}/what-if  body: oracle.Problem    reply: oracle.WhatIfOutput
//
// Replies are checked against embedded JSON schemas before decoding.
// Transport failures, 5xx and 429 replies are retryable oracle errors; a
// reply with status "error" is a non-retryable oracle error carrying the
// service's diagnostics unchanged. The client never retries by itself.
package remote
