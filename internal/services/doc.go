// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP handlers and the pipeline so that tracing,
// metrics and logging of derivations live in one place.
//
// # Architecture
//
// Services follow these architectural principles:
//
//  1. Interface-driven design for testability
//  2. Context propagation for cancellation and tracing
//  3. Dependency injection for loose coupling
//  4. Pure derivations over a shared, read-only record set
//
// # Available Services
//
// The package provides these core services:
//
//   - DashboardService: Filters the record set and computes aggregates
//   - HealthService: Provides liveness and dataset health checks
//
// # Common Service Pattern
//
// Every DashboardService method loads the memoized record set, applies
// the filter criteria and runs one derivation inside a span:
//
//	func (s *DashboardService) RFM(ctx context.Context, c domain.FilterCriteria, by domain.Dimension, l domain.Locale) (*domain.RFMResult, error) {
//	    view, err := s.apply(ctx, c)
//	    if err != nil {
//	        return nil, err
//	    }
//	    var out *domain.RFMResult
//	    err = s.derive(ctx, "rfm", func(context.Context) error {
//	        out, err = dataprocessing.RFM(view, by)
//	        return err
//	    })
//	    ...
//	}
//
// # Error Handling
//
// Services pass pipeline errors through unchanged:
//
//   - DataUnavailable AppErrors when the dataset failed to load
//   - Derivation AppErrors naming the aggregate that could not be computed
//   - Sentinel errors from errors.go for invalid input
//
// # Testing
//
// Services are tested by mocking dependencies:
//
//	source := new(MockRecordSource)
//	source.On("Load", mock.Anything).Return(set, nil)
//	service := NewDashboardService(source, nil, nil, nil, logger)
package services
