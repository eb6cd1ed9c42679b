// Package async runs blocking native work off the calling goroutine and
// delivers each result exactly once through a completion.
//
// A Runner owns a bounded pool of workers and a single completion loop. Work
// functions run concurrently on the pool and must only touch data they were
// explicitly handed. Their results are then passed, one at a time and in the
// order the work finished, to a continuation running on the completion loop.
// Continuations are the only place where shared wrapper objects may be
// mutated, which gives callers a single owning goroutine without locks of
// their own.
//
// There is no cancellation: once submitted, work runs to completion. The
// context given to Future.Wait only bounds how long the caller waits.
package async
