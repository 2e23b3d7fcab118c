// Package specmocktest runs a specmock server inside Go tests.
//
// The server is built from an API schema document, listens on a loopback
// httptest server and records every request it answers, so a test can
// exercise a client against generated responses and then verify the calls:
//
//	func TestClient(t *testing.T) {
//	    srv := specmocktest.NewServer(t, "testdata/openapi.yaml")
//
//	    client := petstore.NewClient(srv.URL)
//	    _, err := client.GetPet(context.Background(), 42)
//	    require.NoError(t, err)
//
//	    srv.AssertCalled(t, "GET", "/v1/pets/42")
//	    srv.AssertRouteCalledTimes(t, "GET", "/pets/{petId}", 1)
//	}
//
// The server is closed automatically when the test completes.
package specmocktest
