package dynatrace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	problemPageSize    = 500
	entityTypePageSize = 500
	entityPageSize     = 1000
)

//go:generate moq -rm -out client_mock.go . API

type API interface {
	GetProblems(ctx context.Context, filter ProblemFilter) ([]Problem, error)
	GetProblemDetails(ctx context.Context, problemID string) (Problem, json.RawMessage, error)
	GetEntityTypes(ctx context.Context) ([]EntityType, error)
	GetEntities(ctx context.Context, entityType string) ([]Entity, error)
	GetEntitiesByType(ctx context.Context, entityType string) ([]Entity, error)
	AddComment(ctx context.Context, problemID string, comment Comment) (json.RawMessage, error)
	UpdateComment(ctx context.Context, problemID, commentID string, comment Comment) (json.RawMessage, error)
	GetComment(ctx context.Context, problemID, commentID string) (json.RawMessage, error)
	TestConnection(ctx context.Context) ConnectionResult
}

// ClientFactory creates an API client for a tenant's environment. Injected
// into the services so that tests can substitute a mock per tenant.
type ClientFactory func(apiURL, apiToken string) API

type client struct {
	apiURL   string
	apiToken string

	httpClient http.Client
}

// New creates a client for a single Dynatrace environment. The apiURL is
// expected to already include the /api/v2 prefix.
func New(apiURL, apiToken string) API {
	return &client{
		apiURL:   strings.TrimSuffix(apiURL, "/"),
		apiToken: apiToken,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dynatrace api returned status %d: %s", e.StatusCode, e.Body)
}

func (c *client) GetProblems(ctx context.Context, filter ProblemFilter) ([]Problem, error) {
	allProblems := []Problem{}
	nextPageKey := ""

	for {
		params := url.Values{}

		if nextPageKey != "" {
			// all other parameters must be omitted on follow up pages
			params.Set("nextPageKey", nextPageKey)
		} else {
			params.Set("pageSize", strconv.Itoa(problemPageSize))
			if filter.From != "" {
				params.Set("from", filter.From)
			}
			if filter.To != "" {
				params.Set("to", filter.To)
			}
			if filter.Status != "" {
				params.Set("problemSelector", `status("`+filter.Status+`")`)
			}
			if filter.ProblemSelect != "" {
				params.Set("fields", filter.ProblemSelect)
			}
		}

		body, err := c.get(ctx, "/problems", params)
		if err != nil {
			return nil, err
		}

		page := problemsResponse{}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal problems response: %w", err)
		}

		allProblems = append(allProblems, page.Problems...)

		if page.NextPageKey == "" {
			break
		}
		nextPageKey = page.NextPageKey
	}

	return allProblems, nil
}

func (c *client) GetProblemDetails(ctx context.Context, problemID string) (Problem, json.RawMessage, error) {
	params := url.Values{}
	params.Set("fields", "evidenceDetails,impactAnalysis,recentComments")

	body, err := c.get(ctx, "/problems/"+problemID, params)
	if err != nil {
		return Problem{}, nil, err
	}

	problem := Problem{}
	if err := json.Unmarshal(body, &problem); err != nil {
		return Problem{}, nil, fmt.Errorf("failed to unmarshal problem details: %w", err)
	}

	return problem, json.RawMessage(body), nil
}

func (c *client) GetEntityTypes(ctx context.Context) ([]EntityType, error) {
	allTypes := []EntityType{}
	nextPageKey := ""

	for {
		params := url.Values{}
		if nextPageKey != "" {
			params.Set("nextPageKey", nextPageKey)
		} else {
			params.Set("pageSize", strconv.Itoa(entityTypePageSize))
		}

		body, err := c.get(ctx, "/entityTypes", params)
		if err != nil {
			return nil, err
		}

		page := entityTypesResponse{}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entity types response: %w", err)
		}

		allTypes = append(allTypes, page.Types...)

		if page.NextPageKey == "" {
			break
		}
		nextPageKey = page.NextPageKey
	}

	return allTypes, nil
}

// GetEntities fetches entities of the given type, or of every known type
// if entityType is empty. Failures for individual types are logged and
// skipped so that one bad type does not sink the entire fetch.
func (c *client) GetEntities(ctx context.Context, entityType string) ([]Entity, error) {
	if entityType != "" {
		return c.GetEntitiesByType(ctx, entityType)
	}

	logger := logging.GetLoggerFromContext(ctx)

	entityTypes, err := c.GetEntityTypes(ctx)
	if err != nil {
		return nil, err
	}

	allEntities := []Entity{}

	for _, et := range entityTypes {
		entities, err := c.GetEntitiesByType(ctx, et.Type)
		if err != nil {
			logger.Warn().Err(err).Msgf("failed to fetch entities of type %s", et.Type)
			continue
		}
		allEntities = append(allEntities, entities...)
	}

	return allEntities, nil
}

func (c *client) GetEntitiesByType(ctx context.Context, entityType string) ([]Entity, error) {
	params := url.Values{}
	params.Set("entitySelector", "type("+entityType+")")
	params.Set("pageSize", strconv.Itoa(entityPageSize))
	params.Set("fields", "properties")

	body, err := c.get(ctx, "/entities", params)
	if err != nil {
		return nil, err
	}

	page := entitiesResponse{}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entities response: %w", err)
	}

	entities := make([]Entity, 0, len(page.Entities))
	for _, raw := range page.Entities {
		entities = append(entities, parseEntity(raw))
	}

	return entities, nil
}

func (c *client) AddComment(ctx context.Context, problemID string, comment Comment) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, "/problems/"+problemID+"/comments", comment)
}

func (c *client) UpdateComment(ctx context.Context, problemID, commentID string, comment Comment) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPut, "/problems/"+problemID+"/comments/"+commentID, comment)
}

func (c *client) GetComment(ctx context.Context, problemID, commentID string) (json.RawMessage, error) {
	body, err := c.get(ctx, "/problems/"+problemID+"/comments/"+commentID, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// TestConnection verifies that the environment is reachable and the token
// is accepted. It never returns an error, the outcome is in the result.
func (c *client) TestConnection(ctx context.Context) ConnectionResult {
	_, err := c.get(ctx, "/problems", nil)
	if err != nil {
		return ConnectionResult{Success: false, Error: err.Error()}
	}
	return ConnectionResult{Success: true}
}

func (c *client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	requestURL := c.apiURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}

	return c.do(req)
}

func (c *client) send(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return json.RawMessage(body), nil
}

func (c *client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Api-Token "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to dynatrace failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
