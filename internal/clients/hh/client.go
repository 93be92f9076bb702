package hh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/maxaizer/hh-employers/internal/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://api.hh.ru"
	DefaultUserAgent = "HH-User-Agent"
)

const (
	endpointVacancies = "vacancies"
	endpointEmployers = "employers"
	endpointEmployer  = "employer"
)

type getVacanciesResponse struct {
	Vacancies []VacancyItem `json:"items"`
	Pages     int           `json:"pages"`
	Found     int           `json:"found"`
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %v, body: %v", e.StatusCode, e.Body)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
	baseURL     string
	headers     http.Header
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
		headers:    http.Header{"User-Agent": []string{DefaultUserAgent}},
	}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient = &http.Client{Timeout: timeout}
}

func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

func (c *Client) SetUserAgent(userAgent string) {
	c.headers.Set("User-Agent", userAgent)
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	if maxRequestsPerSecond <= 0 {
		c.rateLimiter = nil
		return
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (c *Client) vacanciesURL() string {
	return c.baseURL + "/vacancies"
}

func (c *Client) employersURL() string {
	return c.baseURL + "/employers"
}

func (c *Client) employerURL(id int) string {
	return c.employersURL() + "/" + strconv.Itoa(id)
}

// CheckConnectivity probes the vacancies and employers endpoints and stops at the first failure.
func (c *Client) CheckConnectivity(ctx context.Context) bool {
	probes := []struct{ endpoint, url string }{
		{endpointVacancies, c.vacanciesURL()},
		{endpointEmployers, c.employersURL()},
	}

	for _, probe := range probes {
		if _, err := c.sendRequest(ctx, probe.endpoint, probe.url); err != nil {
			log.Warnf("hh api is unavailable at %v: %v", probe.url, err)
			return false
		}
	}
	return true
}

// EmployerExists reports whether the employer detail can be fetched. Errors are never returned.
func (c *Client) EmployerExists(ctx context.Context, id int) bool {
	if _, err := c.sendRequest(ctx, endpointEmployer, c.employerURL(id)); err != nil {
		log.Debugf("employer %d was not found: %v", id, err)
		return false
	}
	return true
}

func (c *Client) GetVacanciesByEmployer(ctx context.Context, employerID int) ([]VacancyItem, error) {

	params := NewVacancyParams(employerID)
	var vacancies []VacancyItem

	for {
		if err := params.Validate(); err != nil {
			if errors.Is(err, ErrTooDeepPagination) {
				log.Warnf("too deep pagination for employer %d, page: %d, per page: %d",
					employerID, params.Page, params.PerPage)
				break
			}
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}

		body, err := c.sendRequest(ctx, endpointVacancies, c.vacanciesURL()+"?"+params.ToUrlParams().Encode())
		if err != nil {
			return nil, err
		}

		var vacanciesResponse getVacanciesResponse
		if err := json.NewDecoder(bytes.NewReader(body)).Decode(&vacanciesResponse); err != nil {
			return nil, fmt.Errorf("error decoding JSON response: %w", err)
		}

		vacancies = append(vacancies, vacanciesResponse.Vacancies...)

		params.Page++
		if params.Page >= vacanciesResponse.Pages {
			break
		}
	}

	return vacancies, nil
}

func (c *Client) GetEmployer(ctx context.Context, id int) (Employer, error) {

	body, err := c.sendRequest(ctx, endpointEmployer, c.employerURL(id))
	if err != nil {
		return Employer{}, err
	}

	var employer Employer
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&employer); err != nil {
		return Employer{}, fmt.Errorf("error decoding JSON response: %w", err)
	}

	return employer, nil
}

func (c *Client) sendRequest(ctx context.Context, endpoint string, url string) ([]byte, error) {

	if c.rateLimiter != nil {
		err := c.rateLimiter.Wait(ctx)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating request")
	}

	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.HhRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, errors.Wrap(err, "error sending request")
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading response body")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
