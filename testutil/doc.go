// Package testutil provides lifecycle helpers for testing components.
//
//	func TestFeature(t *testing.T) {
//	    testutil.T(t).Setup(hub)          // started now, stopped at test end
//	    ...
//	    testutil.T(t).Reset(hub)          // back to a clean state
//	}
//
// Several components can be managed together with a Manager, which starts
// them in order and stops them in reverse. Eventually polls a condition for
// assertions on state that settles asynchronously (a stream removed after
// its client disconnects, for example).
package testutil
