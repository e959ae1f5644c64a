// package tasks implements the concurrency building blocks the operation
// layer composes: a sequential paginated fetcher for offset/limit listing
// APIs and a bounded worker pool for fanning out independent remote calls.
//
// Both convert remote failure into partial results rather than propagating
// it; a listing that returns something beats one that returns an error.
package tasks
