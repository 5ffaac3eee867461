package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteOKCollect_ParsesJobRows(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `<html><body><table>
			<tr class="job" data-url="/remote-jobs/100-backend-engineer">
				<td><h2>Backend Engineer</h2><h3>Acme</h3></td>
			</tr>
			<tr class="job placeholder" data-url="/ad"><td><h2>Sponsored</h2></td></tr>
			<tr class="job" data-url="/remote-jobs/101-golang-dev">
				<td><h2>Golang Dev</h2><h3>Globex</h3></td>
			</tr>
		</table></body></html>`)
	}))
	defer srv.Close()

	c := NewRemoteOK("python backend", srv.URL, srv.Client())
	listings, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if gotPath != "/remote-python-backend-jobs" {
		t.Errorf("request path = %q, want tag with dashes", gotPath)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2 (placeholder row excluded)", len(listings))
	}
	if listings[0].Title != "Backend Engineer" {
		t.Errorf("Title = %q", listings[0].Title)
	}
	if listings[0].URL != srv.URL+"/remote-jobs/100-backend-engineer" {
		t.Errorf("URL = %q", listings[0].URL)
	}
	if listings[1].SourceID != "remoteok" {
		t.Errorf("SourceID = %q", listings[1].SourceID)
	}
}

func TestRemoteOKCollect_SkipsRowsWithoutDataURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><table>
			<tr class="job"><td><h2>No link</h2></td></tr>
			<tr class="job" data-url="/remote-jobs/1"><td><h2>Linked</h2></td></tr>
		</table></body></html>`)
	}))
	defer srv.Close()

	c := NewRemoteOK("golang", srv.URL, srv.Client())
	listings, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(listings) != 1 || listings[0].Title != "Linked" {
		t.Errorf("listings = %+v, want only the linked row", listings)
	}
}
