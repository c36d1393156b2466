package kdb

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"kdb-scraper/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/text/encoding/japanese"
)

// ErrorMarker is present in every error page the portal renders.
const ErrorMarker = "sys-err-head"

func toUTF8(body []byte) []byte {
	if utf8.Valid(body) {
		return body
	}
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return decoded
}

// errorPageMessage pulls the human readable message out of an error page.
func errorPageMessage(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(toUTF8(body)))
	if err != nil {
		return ""
	}
	texts := htmlutil.SelectionText(doc.Find(`[class^="sys-err"]`))
	if len(texts) == 0 {
		texts = htmlutil.SelectionText(doc.Find("title"))
	}
	return strings.Join(texts, " ")
}

// checkResponse runs after every request, the portal reports application
// errors with a 200 status so the body is what decides.
func checkResponse(step string, res *resty.Response) error {
	body := res.Body()
	if bytes.Contains(body, []byte(ErrorMarker)) {
		return &PortalError{
			Step:    step,
			Status:  res.StatusCode(),
			Message: errorPageMessage(body),
		}
	}
	if res.IsError() {
		return &PortalError{
			Step:    step,
			Status:  res.StatusCode(),
			Message: "unexpected status " + res.Status(),
		}
	}
	return nil
}
