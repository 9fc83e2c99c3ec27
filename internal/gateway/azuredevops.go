package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RachitaModiTR/AnalyticsDashboard/internal/config"
	"github.com/RachitaModiTR/AnalyticsDashboard/internal/domain"
)

// workItemBatchSize is the maximum number of ids per work item details call.
const workItemBatchSize = 200

// WorkItemQuery scopes a work item fetch. Zero-valued filters are omitted
// from the generated WIQL.
type WorkItemQuery struct {
	Days     int
	Type     string
	State    string
	AreaPath string
}

// WorkItemSource defines the behavior of a gateway for fetching work items
// and their linked development artifacts.
type WorkItemSource interface {
	QueryWorkItems(ctx context.Context, query WorkItemQuery) ([]domain.WorkItem, error)
	FetchRelations(ctx context.Context, workItemID int) ([]domain.Relation, error)
	FetchPullRequestDetail(ctx context.Context, repositoryID, pullRequestID string) (*domain.LinkDetail, error)
	FetchCommitDetail(ctx context.Context, repositoryID, commitID string) (*domain.LinkDetail, error)
}

// RepositoryMetadata is the slice of repository metadata the resolver needs.
type RepositoryMetadata struct {
	Name      string `json:"name"`
	RemoteURL string `json:"remoteUrl"`
}

// RepositoryMetadataSource resolves opaque repository ids against the
// hosting platform's repository metadata API.
type RepositoryMetadataSource interface {
	FetchRepository(ctx context.Context, repositoryID string) (*RepositoryMetadata, error)
}

// AzureDevOpsGateway talks to the Azure DevOps REST API for one immutable
// organization/project scope. It is safe for concurrent use; nothing is
// mutated after construction.
type AzureDevOpsGateway struct {
	httpClient *http.Client
	baseURL    string
	scope      config.AzureDevOps
	logger     *zap.Logger
}

// NewAzureDevOpsGateway creates a gateway for the given scope.
func NewAzureDevOpsGateway(scope config.AzureDevOps, logger *zap.Logger) *AzureDevOpsGateway {
	return &AzureDevOpsGateway{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://dev.azure.com",
		scope:      scope,
		logger:     logger,
	}
}

func (g *AzureDevOpsGateway) projectURL() string {
	return fmt.Sprintf("%s/%s/%s/_apis", g.baseURL, g.scope.Organization, g.scope.Project)
}

func (g *AzureDevOpsGateway) orgURL() string {
	return fmt.Sprintf("%s/%s/_apis", g.baseURL, g.scope.Organization)
}

// QueryWorkItems runs a WIQL query scoped to the trailing query.Days-day
// window and fetches the basic fields of every matching work item.
func (g *AzureDevOpsGateway) QueryWorkItems(ctx context.Context, query WorkItemQuery) ([]domain.WorkItem, error) {
	wiql := buildWIQL(g.scope.Project, query)
	g.logger.Debug("querying work items", zap.String("wiql", wiql))

	var wiqlResult struct {
		WorkItems []struct {
			ID int `json:"id"`
		} `json:"workItems"`
	}
	url := fmt.Sprintf("%s/wit/wiql?api-version=6.0", g.projectURL())
	if err := g.do(ctx, http.MethodPost, url, map[string]string{"query": wiql}, &wiqlResult); err != nil {
		return nil, fmt.Errorf("failed to run work item query: %w", err)
	}

	ids := make([]int, 0, len(wiqlResult.WorkItems))
	for _, item := range wiqlResult.WorkItems {
		ids = append(ids, item.ID)
	}
	if len(ids) == 0 {
		return []domain.WorkItem{}, nil
	}

	items := make([]domain.WorkItem, 0, len(ids))
	for start := 0; start < len(ids); start += workItemBatchSize {
		end := start + workItemBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := g.fetchWorkItemDetails(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)
	}

	g.logger.Debug("fetched work items", zap.Int("count", len(items)))
	return items, nil
}

func (g *AzureDevOpsGateway) fetchWorkItemDetails(ctx context.Context, ids []int) ([]domain.WorkItem, error) {
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = strconv.Itoa(id)
	}

	fields := "System.Id,System.Title,System.State,System.WorkItemType," +
		"System.CreatedDate,System.ChangedDate,System.AssignedTo,System.AreaPath"
	url := fmt.Sprintf("%s/wit/workitems?api-version=6.0&ids=%s&fields=%s",
		g.projectURL(), strings.Join(idStrings, ","), fields)

	var result struct {
		Value []workItemResponse `json:"value"`
	}
	if err := g.do(ctx, http.MethodGet, url, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch work item details: %w", err)
	}

	items := make([]domain.WorkItem, 0, len(result.Value))
	for _, raw := range result.Value {
		items = append(items, raw.toDomain())
	}
	return items, nil
}

// FetchRelations fetches the raw relation list of one work item.
func (g *AzureDevOpsGateway) FetchRelations(ctx context.Context, workItemID int) ([]domain.Relation, error) {
	url := fmt.Sprintf("%s/wit/workitems/%d?api-version=6.0&$expand=relations", g.projectURL(), workItemID)

	var result struct {
		Relations []domain.Relation `json:"relations"`
	}
	if err := g.do(ctx, http.MethodGet, url, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch relations for work item %d: %w", workItemID, err)
	}
	return result.Relations, nil
}

// FetchPullRequestDetail fetches title, author, status and branch names of an
// Azure DevOps pull request.
func (g *AzureDevOpsGateway) FetchPullRequestDetail(ctx context.Context, repositoryID, pullRequestID string) (*domain.LinkDetail, error) {
	url := fmt.Sprintf("%s/git/repositories/%s/pullRequests/%s?api-version=7.0",
		g.projectURL(), repositoryID, pullRequestID)

	var result struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      string `json:"status"`
		CreatedBy   struct {
			DisplayName string `json:"displayName"`
		} `json:"createdBy"`
		CreationDate  string `json:"creationDate"`
		SourceRefName string `json:"sourceRefName"`
		TargetRefName string `json:"targetRefName"`
		MergeStatus   string `json:"mergeStatus"`
	}
	if err := g.do(ctx, http.MethodGet, url, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch pull request %s in repository %s: %w", pullRequestID, repositoryID, err)
	}

	return &domain.LinkDetail{
		Title:        result.Title,
		Description:  result.Description,
		Status:       result.Status,
		CreatedBy:    result.CreatedBy.DisplayName,
		CreatedDate:  result.CreationDate,
		SourceBranch: result.SourceRefName,
		TargetBranch: result.TargetRefName,
		MergeStatus:  result.MergeStatus,
	}, nil
}

// FetchCommitDetail fetches the message and author of a commit.
func (g *AzureDevOpsGateway) FetchCommitDetail(ctx context.Context, repositoryID, commitID string) (*domain.LinkDetail, error) {
	url := fmt.Sprintf("%s/git/repositories/%s/commits/%s?api-version=7.0",
		g.projectURL(), repositoryID, commitID)

	var result struct {
		Comment string `json:"comment"`
		Author  struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"author"`
	}
	if err := g.do(ctx, http.MethodGet, url, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch commit %s in repository %s: %w", commitID, repositoryID, err)
	}

	return &domain.LinkDetail{
		Title:       result.Comment,
		CreatedBy:   result.Author.Name,
		CreatedDate: result.Author.Date,
	}, nil
}

// FetchRepository fetches repository metadata by opaque id. The metadata API
// is organization-scoped, not project-scoped.
func (g *AzureDevOpsGateway) FetchRepository(ctx context.Context, repositoryID string) (*RepositoryMetadata, error) {
	url := fmt.Sprintf("%s/git/repositories/%s?api-version=7.0", g.orgURL(), repositoryID)

	var result RepositoryMetadata
	if err := g.do(ctx, http.MethodGet, url, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch repository %s: %w", repositoryID, err)
	}
	return &result, nil
}

func (g *AzureDevOpsGateway) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth("", g.scope.PAT)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func buildWIQL(project string, query WorkItemQuery) string {
	areaFilter := "1=1"
	if query.AreaPath != "" {
		areaFilter = fmt.Sprintf("[System.AreaPath] UNDER '%s'", query.AreaPath)
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -query.Days).Format("2006-01-02")

	wiql := fmt.Sprintf(
		"SELECT [System.Id], [System.Title], [System.State], [System.WorkItemType], "+
			"[System.CreatedDate], [System.ChangedDate], [System.AssignedTo], [System.AreaPath] "+
			"FROM WorkItems WHERE [System.TeamProject] = '%s' AND %s AND [System.CreatedDate] >= '%s'",
		project, areaFilter, cutoff)

	if query.Type != "" {
		wiql += fmt.Sprintf(" AND [System.WorkItemType] = '%s'", query.Type)
	}
	if query.State != "" {
		wiql += fmt.Sprintf(" AND [System.State] = '%s'", query.State)
	}
	return wiql + " ORDER BY [System.ChangedDate] DESC"
}

type workItemResponse struct {
	ID     int `json:"id"`
	Fields struct {
		Title      string `json:"System.Title"`
		State      string `json:"System.State"`
		Type       string `json:"System.WorkItemType"`
		CreatedAt  string `json:"System.CreatedDate"`
		ChangedAt  string `json:"System.ChangedDate"`
		AreaPath   string `json:"System.AreaPath"`
		AssignedTo struct {
			DisplayName string `json:"displayName"`
		} `json:"System.AssignedTo"`
	} `json:"fields"`
}

func (w workItemResponse) toDomain() domain.WorkItem {
	assignee := w.Fields.AssignedTo.DisplayName
	if assignee == "" {
		assignee = "Unassigned"
	}
	return domain.WorkItem{
		ID:              w.ID,
		Type:            w.Fields.Type,
		State:           w.Fields.State,
		Title:           w.Fields.Title,
		CreatedAt:       w.Fields.CreatedAt,
		ChangedAt:       w.Fields.ChangedAt,
		AreaPath:        w.Fields.AreaPath,
		Assignee:        assignee,
		AssociatedLinks: []domain.LinkRecord{},
	}
}
