package kdb

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Session is the endpoint the portal expects the next request on, it
// changes after every step of the flow.
type Session struct {
	Endpoint string
}

const (
	eventSearch = "searchOpeningCourse"
	eventOutput = "output"
	// outputFormat code for csv
	formatCSV = "0"
)

// searchForm is an unrestricted search over every course of the given
// academic year.
func searchForm(year int, event string) url.Values {
	return url.Values{
		"index":              {""},
		"locale":             {""},
		"nendo":              {strconv.Itoa(year)},
		"termCode":           {""},
		"dayCode":            {""},
		"periodCode":         {""},
		"campusCode":         {""},
		"hierarchy1":         {""},
		"hierarchy2":         {""},
		"hierarchy3":         {""},
		"hierarchy4":         {""},
		"hierarchy5":         {""},
		"freeWord":           {""},
		"_orFlg":             {"1"},
		"_andFlg":            {"1"},
		"_gaiyoFlg":          {"1"},
		"_risyuFlg":          {"1"},
		"_excludeFukaikoFlg": {"1"},
		"outputFormat":       {formatCSV},
		"_eventId":           {event},
	}
}

// resolvedUrl is the url of the last request in the redirect chain.
func resolvedUrl(res *resty.Response) string {
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		return res.RawResponse.Request.URL.String()
	}
	return res.Request.URL
}

// GrantSession opens a session on the portal, collecting its cookies and
// the search endpoint the base url redirects to.
func (c *Client) GrantSession(ctx context.Context) (Session, error) {
	ctx, span := tracer.Start(ctx, "client:GrantSession")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.BaseUrl.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch base url")
		return Session{}, &TransportError{Step: StepGrantSession, Err: err}
	}
	err = checkResponse(StepGrantSession, res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "portal returned an error page")
		return Session{}, err
	}

	session := Session{Endpoint: resolvedUrl(res)}
	span.SetAttributes(attribute.String("endpoint", session.Endpoint))
	return session, nil
}

// SearchCourses submits a search over every course of `year`, the portal
// has to hold a search before it allows an export.
func (c *Client) SearchCourses(ctx context.Context, session Session, year int) (Session, error) {
	ctx, span := tracer.Start(ctx, "client:SearchCourses")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(searchForm(year, eventSearch)).
		Post(session.Endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit search")
		return Session{}, &TransportError{Step: StepSearchCourses, Err: err}
	}
	err = checkResponse(StepSearchCourses, res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "portal returned an error page")
		return Session{}, err
	}

	next := Session{Endpoint: resolvedUrl(res)}
	span.SetAttributes(attribute.String("endpoint", next.Endpoint))
	return next, nil
}

// ExportCSV requests the csv export of the session's current search and
// returns the raw Shift_JIS bytes.
func (c *Client) ExportCSV(ctx context.Context, session Session, year int) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:ExportCSV")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(searchForm(year, eventOutput)).
		Post(session.Endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to request export")
		return nil, &TransportError{Step: StepExportCSV, Err: err}
	}
	err = checkResponse(StepExportCSV, res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "portal returned an error page")
		return nil, err
	}

	span.SetAttributes(attribute.Int("size", len(res.Body())))
	return res.Body(), nil
}

// DownloadCoursesCSV exports the session's search into `dest`. it never
// overwrites, an existing `dest` fails with ErrAlreadyExists and is left
// untouched.
func (c *Client) DownloadCoursesCSV(ctx context.Context, session Session, year int, dest string) error {
	ctx, span := tracer.Start(ctx, "client:DownloadCoursesCSV")
	defer span.End()
	span.SetAttributes(attribute.String("dest", dest))

	contents, err := c.ExportCSV(ctx, session, year)
	if err != nil {
		span.SetStatus(codes.Error, "failed to export csv")
		return err
	}

	err = WriteNew(dest, contents)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write export")
		return err
	}
	return nil
}

// WriteNew creates `dest` with its parent directories and writes contents
// to it, failing with ErrAlreadyExists if `dest` is already there.
func WriteNew(dest string, contents []byte) error {
	_, err := os.Stat(dest)
	if err == nil {
		return &IOError{Op: "create", Path: dest, Err: ErrAlreadyExists}
	}
	if !os.IsNotExist(err) {
		return &IOError{Op: "stat", Path: dest, Err: err}
	}

	dir := filepath.Dir(dest)
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}

	// O_EXCL closes the gap between the stat above and the create
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return &IOError{Op: "create", Path: dest, Err: ErrAlreadyExists}
	}
	if err != nil {
		return &IOError{Op: "create", Path: dest, Err: err}
	}

	_, err = f.Write(contents)
	if err == nil {
		err = f.Close()
	} else {
		f.Close()
	}
	if err != nil {
		// the file was created above, a partial export must not become the cache
		os.Remove(dest)
		return &IOError{Op: "write", Path: dest, Err: err}
	}
	return nil
}
