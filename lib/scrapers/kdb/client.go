package kdb

import (
	"context"
	"net/http/cookiejar"
	"net/url"
	"time"

	"kdb-scraper/lib/restyutil"
	"kdb-scraper/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"
)

const (
	Version          = "0.1.0"
	DefaultUserAgent = "kdb-scraper/" + Version
	DefaultBaseUrl   = "https://kdb.tsukuba.ac.jp/"
	DefaultTimeout   = time.Second * 30
)

// Client is one portal session, the cookies it collects are only valid for
// the run that created it.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl string
	// defaults to DefaultUserAgent
	UserAgent string
	// defaults to DefaultTimeout
	Timeout time.Duration
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	_, span := tracer.Start(ctx, "NewClient")
	defer span.End()

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)

	client.SetHeader("user-agent", opts.UserAgent)
	client.SetHeader("accept-language", "ja,ja-JP;q=0.9,en;q=0.8")
	client.SetRedirectPolicy(
		resty.FlexibleRedirectPolicy(10),
		resty.DomainCheckRedirectPolicy(baseUrl.Hostname()),
	)
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(0)

	telemetry.InstrumentResty(client, "kdb.scrapers.kdb.http")
	restyutil.InstrumentClient(client, restyInstrumentOutput)

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}
	return c, nil
}
