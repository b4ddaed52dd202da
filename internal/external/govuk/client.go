package govuk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/energytrends/internal/contracts"
	"github.com/wonny/energytrends/pkg/httputil"
	"github.com/wonny/energytrends/pkg/logger"
)

// workbookExt is the file extension of a downloadable workbook link
const workbookExt = ".xlsx"

// ErrNoWorkbookLink is returned when the landing page links no workbook
var ErrNoWorkbookLink = errors.New("no Excel file found on the page")

// Client locates and downloads statistics workbooks from GOV.UK
// ⭐ SSOT: GOV.UK 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewClient creates a new GOV.UK client
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.Module("govuk"),
	}
}

var _ contracts.WorkbookFetcher = (*Client)(nil)

// FetchLatestWorkbook downloads the first .xlsx linked from pageURL
func (c *Client) FetchLatestWorkbook(ctx context.Context, pageURL string) (*contracts.Workbook, error) {
	c.logger.WithField("url", pageURL).Info("Downloading landing page")

	page, err := c.httpClient.GetBytes(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch landing page: %w", err)
	}

	link, err := FindWorkbookLink(page, pageURL)
	if err != nil {
		return nil, err
	}

	filename := path.Base(link.Path)
	if filename == "" || filename == "/" || filename == "." {
		return nil, fmt.Errorf("workbook link %s has no file name", link)
	}

	c.logger.WithFields(map[string]interface{}{
		"url":      link.String(),
		"filename": filename,
	}).Info("Downloading Excel file")

	data, err := c.httpClient.GetBytes(ctx, link.String())
	if err != nil {
		return nil, fmt.Errorf("download workbook: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"filename": filename,
		"bytes":    len(data),
	}).Info("Downloaded Excel file")

	return &contracts.Workbook{
		URL:      link.String(),
		Filename: filename,
		Data:     data,
	}, nil
}

// FindWorkbookLink returns the first a[href] ending in .xlsx in html,
// resolved against pageURL.
func FindWorkbookLink(html []byte, pageURL string) (*url.URL, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse landing page: %w", err)
	}

	var href string
	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		v, _ := s.Attr("href")
		if strings.HasSuffix(v, workbookExt) {
			href = v
			return false
		}
		return true
	})
	if href == "" {
		return nil, ErrNoWorkbookLink
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, fmt.Errorf("parse workbook link %q: %w", href, err)
	}
	return base.ResolveReference(ref), nil
}
