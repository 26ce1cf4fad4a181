// Package api serves baymodels and bays over HTTP.
//
// Routes:
//
//	POST   /v1/baymodels         create a baymodel
//	GET    /v1/baymodels         list baymodels
//	GET    /v1/baymodels/:uuid   show a baymodel
//	DELETE /v1/baymodels/:uuid   delete an unreferenced baymodel
//	POST   /v1/bays              create a bay (202, runs in the background)
//	GET    /v1/bays              list bays
//	GET    /v1/bays/:uuid        show a bay
//	PATCH  /v1/bays/:uuid        change node_count (202)
//	DELETE /v1/bays/:uuid        delete a bay (204)
//	GET    /healthz              liveness
//	GET    /metrics              prometheus metrics
//
// Domain errors map to HTTP status codes: not found is 404, invalid
// parameters are 400, conflicts and unsupported operations are 409.
package api
