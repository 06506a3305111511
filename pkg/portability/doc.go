// Package portability imports and exports routes as portable documents.
//
// A document is YAML or JSON:
//
//	version: 1
//	routes:
//	  - route: get-user
//	    request:
//	      method: GET
//	      payload: ""
//	    expectedResponse:
//	      status: 200
//	      body: '{"id":1}'
//
// Payloads and bodies that are valid UTF-8 are written as text (payload, body);
// anything else is written base64-encoded (payloadBase64, bodyBase64). An
// absent field means no bytes at all, which round-trips as nil.
//
// Every document is checked against an embedded JSON Schema before any of its
// routes are converted.
package portability
