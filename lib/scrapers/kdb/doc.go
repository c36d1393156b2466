// Package kdb downloads the course catalog export from the KdB portal.
//
// the export is only reachable through a stateful flow, each step depends
// on the cookies and the endpoint the previous one left behind:
// 1. GrantSession: GET the base url, the portal sets a session cookie and
//    redirects to the search endpoint.
// 2. SearchCourses: POST an unrestricted search, the portal rotates the
//    endpoint's flow key.
// 3. ExportCSV / DownloadCoursesCSV: POST the export request, the response
//    is the Shift_JIS csv.
//
// every step makes one request, then asserts on the response before handing
// the next endpoint on. the portal answers errors with a 200 status, so the
// assertion looks for ErrorMarker in the body rather than at the status.
// nothing is retried, a second search can leave duplicate state on the
// server.
package kdb
