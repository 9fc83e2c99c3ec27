package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/RachitaModiTR/AnalyticsDashboard/internal/config"
	"github.com/RachitaModiTR/AnalyticsDashboard/internal/domain"
	"github.com/RachitaModiTR/AnalyticsDashboard/internal/gateway"
	"github.com/RachitaModiTR/AnalyticsDashboard/internal/parser"
)

// internalPathPrefix marks full_path values that carry an opaque internal
// repository id instead of an owner/name pair.
const internalPathPrefix = "GitHub/"

// Resolver maps opaque internal repository ids to human-readable repository
// names through a layered fallback: authoritative metadata lookup, then the
// static mapping table, then a synthesized placeholder.
type Resolver struct {
	metadata gateway.RepositoryMetadataSource
	known    config.RepositoryMapping
	logger   *zap.Logger
}

// NewResolver creates a Resolver. The mapping table is injectable so
// deployments can replace it without a rebuild.
func NewResolver(metadata gateway.RepositoryMetadataSource, known config.RepositoryMapping, logger *zap.Logger) *Resolver {
	return &Resolver{
		metadata: metadata,
		known:    known,
		logger:   logger,
	}
}

// Resolve never fails: every id yields a ResolvedRepository, with Resolved
// set to false when only a placeholder could be synthesized. Placeholders are
// for display only and must never drive an external action.
func (r *Resolver) Resolve(ctx context.Context, repositoryID string) domain.ResolvedRepository {
	if resolved, ok := r.resolveAuthoritative(ctx, repositoryID); ok {
		return resolved
	}

	if repo, ok := r.known.Lookup(repositoryID); ok {
		r.logger.Debug("repository resolved from mapping table",
			zap.String("repository_id", repositoryID),
			zap.String("github_repo", repo))
		owner, name, _ := parser.SplitRepoPath(repo)
		return domain.ResolvedRepository{
			RepositoryID: repositoryID,
			GitHubRepo:   repo,
			DisplayName:  name,
			Owner:        owner,
			Repo:         name,
			RemoteURL:    "https://github.com/" + repo,
			Resolved:     true,
		}
	}

	short := parser.ShortID(repositoryID)
	r.logger.Debug("repository resolution fell back to placeholder",
		zap.String("repository_id", repositoryID))
	return domain.ResolvedRepository{
		RepositoryID: repositoryID,
		GitHubRepo:   "owner/repo-" + short,
		DisplayName:  "GitHub-" + short,
		Owner:        "owner",
		Repo:         "repo-" + short,
		Resolved:     false,
	}
}

func (r *Resolver) resolveAuthoritative(ctx context.Context, repositoryID string) (domain.ResolvedRepository, bool) {
	meta, err := r.metadata.FetchRepository(ctx, repositoryID)
	if err != nil {
		r.logger.Debug("authoritative repository lookup failed",
			zap.String("repository_id", repositoryID), zap.Error(err))
		return domain.ResolvedRepository{}, false
	}

	if owner, name, ok := parser.GitHubRepoFromRemote(meta.RemoteURL); ok {
		return domain.ResolvedRepository{
			RepositoryID: repositoryID,
			GitHubRepo:   owner + "/" + name,
			DisplayName:  meta.Name,
			Owner:        owner,
			Repo:         name,
			RemoteURL:    meta.RemoteURL,
			Resolved:     true,
		}, true
	}

	if meta.Name == "" {
		return domain.ResolvedRepository{}, false
	}

	// A non-GitHub remote is still an authoritative answer.
	return domain.ResolvedRepository{
		RepositoryID: repositoryID,
		GitHubRepo:   "azuredevops/" + meta.Name,
		DisplayName:  meta.Name,
		Owner:        "azuredevops",
		Repo:         meta.Name,
		RemoteURL:    meta.RemoteURL,
		Resolved:     true,
	}, true
}

// ResolveAll resolves every internal-id repository path observed in a
// reconciliation pass and merges in the per-id pull request counts from the
// breakdown, which is keyed by the truncated display form.
func (r *Resolver) ResolveAll(ctx context.Context, fullPaths []string, breakdown map[string]int) []domain.ResolvedRepository {
	resolved := make([]domain.ResolvedRepository, 0, len(fullPaths))
	for _, path := range fullPaths {
		if !strings.HasPrefix(path, internalPathPrefix) {
			continue
		}
		repositoryID := strings.TrimPrefix(path, internalPathPrefix)

		repo := r.Resolve(ctx, repositoryID)
		repo.FullPath = path
		repo.PRCount = breakdown["GitHub-"+parser.ShortID(repositoryID)]
		resolved = append(resolved, repo)
	}
	return resolved
}
