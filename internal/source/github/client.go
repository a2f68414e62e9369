// Package github fetches the issues assigned to the authenticated user.
// GraphQL search is the primary path; plain REST listing is the fallback
// when the search endpoint is unavailable.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/hasura/go-graphql-client"
	"golang.org/x/oauth2"

	"github.com/sandeepkv93/paneld/internal/model"
	"github.com/sandeepkv93/paneld/internal/source"
)

const (
	defaultGraphQLURL = "https://api.github.com/graphql"
	defaultRESTURL    = "https://api.github.com"
	defaultQuery      = "assignee:@me is:issue is:open"

	perPage = 100
	// The REST listing tolerates sparse pages: it stops only after this many
	// consecutive empty pages, and never collects more than maxItems.
	emptyPageLimit = 2
	maxItems       = 500
)

type Config struct {
	Token      string
	Query      string
	GraphQLURL string
	RESTURL    string
}

type Client struct {
	token      string
	query      string
	restURL    string
	gql        *graphql.Client
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Query == "" {
		cfg.Query = defaultQuery
	}
	if cfg.GraphQLURL == "" {
		cfg.GraphQLURL = defaultGraphQLURL
	}
	if cfg.RESTURL == "" {
		cfg.RESTURL = defaultRESTURL
	}

	httpClient := oauth2.NewClient(context.Background(),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))

	return &Client{
		token:      cfg.Token,
		query:      cfg.Query,
		restURL:    strings.TrimRight(cfg.RESTURL, "/"),
		gql:        graphql.NewClient(cfg.GraphQLURL, httpClient),
		httpClient: httpClient,
	}
}

func (c *Client) Name() model.Source { return model.SourceGitHub }

func (c *Client) Configured() bool { return c.token != "" }

// Fetch returns the open issues assigned to the token's user, newest first
// as the API reports them. GraphQL search first, REST listing as fallback.
func (c *Client) Fetch(ctx context.Context) ([]model.ExternalItem, error) {
	items, err := c.fetchGraphQL(ctx)
	if err == nil {
		return items, nil
	}
	items, restErr := c.fetchREST(ctx)
	if restErr != nil {
		return nil, source.NewFetchError(model.SourceGitHub, source.FailureNetwork,
			fmt.Errorf("graphql: %v; rest: %w", err, restErr))
	}
	return items, nil
}

type issueSearchQuery struct {
	Search struct {
		Nodes []struct {
			Issue struct {
				Number     int    `graphql:"number"`
				Title      string `graphql:"title"`
				Repository struct {
					NameWithOwner string `graphql:"nameWithOwner"`
				} `graphql:"repository"`
			} `graphql:"... on Issue"`
		} `graphql:"nodes"`
		PageInfo struct {
			HasNextPage bool    `graphql:"hasNextPage"`
			EndCursor   *string `graphql:"endCursor"`
		} `graphql:"pageInfo"`
	} `graphql:"search(query: $query, type: ISSUE, first: $first, after: $after)"`
}

func (c *Client) fetchGraphQL(ctx context.Context) ([]model.ExternalItem, error) {
	var items []model.ExternalItem
	var after *string

	for {
		var query issueSearchQuery
		variables := map[string]interface{}{
			"query": graphql.String(c.query),
			"first": graphql.Int(perPage),
			"after": (*graphql.String)(after),
		}
		if err := c.gql.Query(ctx, &query, variables); err != nil {
			return nil, fmt.Errorf("issue search: %w", err)
		}

		for _, node := range query.Search.Nodes {
			issue := node.Issue
			if issue.Number == 0 {
				continue
			}
			items = append(items, model.ExternalItem{
				ID:     fmt.Sprintf("%s#%d", issue.Repository.NameWithOwner, issue.Number),
				Title:  issue.Title,
				Detail: issue.Repository.NameWithOwner,
			})
		}

		if !query.Search.PageInfo.HasNextPage || query.Search.PageInfo.EndCursor == nil {
			break
		}
		if len(items) >= maxItems {
			items = items[:maxItems]
			break
		}
		after = query.Search.PageInfo.EndCursor
	}

	return items, nil
}

type restIssue struct {
	Number     int    `json:"number"`
	Title      string `json:"title"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

func (c *Client) fetchREST(ctx context.Context) ([]model.ExternalItem, error) {
	var items []model.ExternalItem
	emptyPages := 0

	for page := 1; len(items) < maxItems; page++ {
		issues, err := c.listPage(ctx, page)
		if err != nil {
			return nil, err
		}

		if len(issues) == 0 {
			emptyPages++
			if emptyPages >= emptyPageLimit {
				break
			}
			continue
		}
		emptyPages = 0

		for _, issue := range issues {
			if len(items) >= maxItems {
				break
			}
			items = append(items, model.ExternalItem{
				ID:     fmt.Sprintf("%s#%d", issue.Repository.FullName, issue.Number),
				Title:  issue.Title,
				Detail: issue.Repository.FullName,
			})
		}
	}

	return items, nil
}

func (c *Client) listPage(ctx context.Context, page int) ([]restIssue, error) {
	url := fmt.Sprintf("%s/issues?filter=assigned&state=open&per_page=%d&page=%d",
		c.restURL, perPage, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list issues page %d: %w", page, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, source.NewFetchError(model.SourceGitHub, source.FailureAuth,
			fmt.Errorf("list issues: status %d", resp.StatusCode))
	case http.StatusTooManyRequests:
		return nil, source.NewFetchError(model.SourceGitHub, source.FailureRateLimit,
			fmt.Errorf("list issues: status %d", resp.StatusCode))
	default:
		return nil, fmt.Errorf("list issues page %d: status %d", page, resp.StatusCode)
	}

	var issues []restIssue
	if err := json.NewDecoder(resp.Body).Decode(&issues); err != nil {
		return nil, source.NewFetchError(model.SourceGitHub, source.FailureDecode, err)
	}
	return issues, nil
}
