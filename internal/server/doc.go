// Package server exposes the pipeline over HTTP with gin.
//
// Routes:
//
//	GET    /health
//	POST   /optimize             instance JSON -> stored run
//	GET    /runs                 ?limit=&status=
//	GET    /runs/:id
//	DELETE /runs/:id
//	GET    /runs/:id/what-ifs
//	GET    /statistics
//	POST   /what-if              pipeline.WhatIfRequest -> pipeline.WhatIfResponse
//	POST   /what-if/check        dry run, no oracle call
//	GET    /metrics              Prometheus exposition
//
// Errors are JSON ErrorResponse bodies. Request mistakes map to 400,
// unknown runs to 404, everything else to 500.
package server
