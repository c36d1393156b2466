// Package kdbtest runs an in-memory stand-in for the course catalog portal.
package kdbtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
)

const (
	SessionCookie = "JSESSIONID"
	SearchPath    = "/campusweb/campussquare.do"
	flowKey       = "_flowExecutionKey"
	searchKey     = "e1s1"
	exportKey     = "e1s2"
)

const ErrorPage = `<html>
<head><title>エラー</title></head>
<body>
<div class="sys-err-head">エラーが発生しました</div>
<div class="sys-err-msg">%s</div>
</body>
</html>`

// Request is a request the portal received.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Form   url.Values
}

type Portal struct {
	Server *httptest.Server
	// Shift_JIS bytes answered to the export request
	CSV  []byte
	Year int
	// name of the step ("grant_session", "search_courses", "export_csv")
	// answered with an error page
	FailStep string

	mu       sync.Mutex
	requests []Request
}

// NewPortal starts a portal serving csv for `year`, it is closed when the
// test ends.
func NewPortal(t testing.TB, year int, csv []byte) *Portal {
	p := &Portal{CSV: csv, Year: year}
	p.Server = httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(p.Server.Close)
	return p
}

func (p *Portal) URL() string {
	return p.Server.URL + "/"
}

func (p *Portal) Requests() []Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Request, len(p.requests))
	copy(out, p.requests)
	return out
}

func (p *Portal) record(r *http.Request) {
	r.ParseForm()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Form:   r.PostForm,
	})
}

func errorPage(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	// the real portal answers its error pages with 200
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, ErrorPage, message)
}

func redirectToFlow(w http.ResponseWriter, r *http.Request, key string) {
	target := fmt.Sprintf("%s?%s=%s", SearchPath, flowKey, key)
	http.Redirect(w, r, target, http.StatusFound)
}

func (p *Portal) serve(w http.ResponseWriter, r *http.Request) {
	p.record(r)

	switch r.URL.Path {
	case "/":
		if p.FailStep == "grant_session" {
			errorPage(w, "システムが混雑しています")
			return
		}
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "session-1", Path: "/"})
		redirectToFlow(w, r, searchKey)
	case SearchPath:
		p.serveFlow(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (p *Portal) serveFlow(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value != "session-1" {
		errorPage(w, "セッションが無効です")
		return
	}
	if r.Method == http.MethodGet {
		w.Header().Set("Content-Type", "text/html; charset=UTF-8")
		fmt.Fprint(w, "<html><head><title>授業検索</title></head><body></body></html>")
		return
	}

	key := r.URL.Query().Get(flowKey)
	if r.PostForm.Get("nendo") != strconv.Itoa(p.Year) {
		errorPage(w, "年度が正しくありません")
		return
	}

	switch r.PostForm.Get("_eventId") {
	case "searchOpeningCourse":
		if key != searchKey || p.FailStep == "search_courses" {
			errorPage(w, "検索に失敗しました")
			return
		}
		redirectToFlow(w, r, exportKey)
	case "output":
		if key != exportKey || p.FailStep == "export_csv" {
			errorPage(w, "出力に失敗しました")
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="kdb.csv"`)
		w.Write(p.CSV)
	default:
		errorPage(w, "不正な操作です")
	}
}
