// Package testutil provides a test server component backed by
// httptest.Server. It implements testutil.TestComponent, so it can be
// managed with the root testutil helpers.
//
//	srv := testutil.NewComponent()
//	srv.GinEngine().GET("/hello", handler)
//	roottestutil.T(t).Setup(srv)
//
//	resp, _ := http.Get(srv.BaseURL() + "/hello")
package testutil
