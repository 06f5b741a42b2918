// Package app wires the rental dashboard together and manages its lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration from .env, config.yaml and BIKE_* variables
//  2. Initialize structured logging and OpenTelemetry
//  3. Load the rental dataset (the server refuses to start without it)
//  4. Build the dashboard and health services
//  5. Set up middleware and the /api/v1 routes
//  6. Serve HTTP and watch the dataset file for changes
//
// # Usage
//
//	application, err := app.NewApplication(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Run returns after SIGINT, SIGTERM or cancellation of ctx, once in-flight
// requests have drained or the shutdown timeout has passed.
package app
