// Package http implements the JSON API of the rental dashboard.
// Handlers stay thin: they parse query parameters into filter criteria and
// derivation requests, call the dashboard service, and render the result.
//
// # Selection
//
// Every derivation endpoint accepts the same filter parameters:
//
//	year, season, month, weather, working_day   comma separated codes
//	start, end                                  YYYY-MM-DD, inclusive
//
// A parameter that is absent leaves its dimension unconstrained. A
// parameter that is present but empty (?season=) selects nothing, so the
// view is empty and any aggregate over it fails with 422.
//
// Labels follow ?lang= and then Accept-Language; English and Indonesian
// are supported.
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/derivation",
//	    "title": "Derivation Failed",
//	    "status": 422,
//	    "detail": "cannot compute mean(total) by season: no records selected",
//	    "instance": "/api/v1/aggregate",
//	    "aggregate": "mean(total) by season"
//	}
//
// Malformed parameters answer 400, derivation failures 422 and an
// unavailable dataset 503.
package http
