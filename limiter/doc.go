// Package limiter provides per-model admission control: a fixed pool of slots
// bounding the number of simultaneously executing operations.
//
// # Guarantees
//
//   - [Limiter.Acquire] blocks without busy-waiting until a slot is free and
//     honors context cancellation, in which case no slot is held.
//   - [Limiter.Release] never blocks. Callers must release exactly once per
//     successful acquire, on every exit path.
//   - There is no queue-overflow rejection policy; waiters queue indefinitely
//     unless their context is cancelled by the transport.
package limiter
