// Package rest provides a uniform client-side HTTP transaction layer:
// verb-specific entry points (Get, Post, Put, Delete) that construct the
// outbound request, and a shared processing pipeline that applies per-call
// options, executes the exchange exactly once, classifies the outcome, and
// materializes the response body the way the caller asked for.
//
// Callers never touch an *http.Request. Every entry point returns either a
// *Response or a *TransactionError carrying the status code, body text, and
// response headers of the failed exchange.
//
// # Basic Usage
//
//	client, err := rest.New(rest.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 30 * time.Second,
//	    Auth:    rest.BearerAuth("my-token"),
//	})
//
//	resp, err := client.Get(ctx, "/users/123", rest.WithMaterialize(rest.MaterializeText))
//	text, _ := resp.Text()
//
// # Body Materialization
//
// The materialization mode decides how the response body is produced:
// MaterializeText, MaterializeBinary, and MaterializeBoth read eagerly
// before the call returns; MaterializeLazy (the zero value) hands the live
// body to the Response, whose Text and Bytes methods read it on first use.
// Lazy responses must be closed by the caller.
package rest
