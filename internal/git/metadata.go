package git

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gitsight/go-vcsurl"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var (
	ErrNoOriginRemote = errors.New("repository has no origin remote")
	ErrNotGitHub      = errors.New("origin remote is not a GitHub repository")
)

// struct with repository metadata
type RepositoryMetadata struct {
	BranchName         *string
	CommitHash         *string
	RepositoryFullName *string
	RemoteURL          *string
	RepoRootFolder     string
}

// CollectRepositoryMetadata collects branch, head commit and origin identity
// of the repository containing sourceFolder.
func CollectRepositoryMetadata(sourceFolder string) (*RepositoryMetadata, error) {
	if sourceFolder == "" {
		return &RepositoryMetadata{}, fmt.Errorf("source folder is not set")
	}

	if absSource, err := filepath.Abs(sourceFolder); err == nil {
		sourceFolder = absSource
	}

	md := &RepositoryMetadata{
		RepoRootFolder: filepath.Clean(sourceFolder),
	}

	repoRootFolder, err := findGitRepositoryPath(sourceFolder)
	if err != nil {
		return md, err
	}
	md.RepoRootFolder = filepath.Clean(repoRootFolder)

	repo, err := git.PlainOpen(repoRootFolder)
	if err != nil {
		return md, fmt.Errorf("failed to open repository: %w", err)
	}

	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			branchName := head.Name().Short()
			md.BranchName = &branchName
		}

		hash := head.Hash().String()
		md.CommitHash = &hash
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if cfg := remote.Config(); cfg != nil && len(cfg.URLs) > 0 {
			remoteURL := cfg.URLs[0]
			md.RemoteURL = &remoteURL
			if info, err := vcsurl.Parse(remoteURL); err == nil && info.Username != "" && info.Name != "" {
				fullName := info.Username + "/" + info.Name
				md.RepositoryFullName = &fullName
			}
		}
	}

	return md, nil
}

// RepositoryFullName returns "owner/name" of the workspace's origin remote.
// It hydrates GITHUB_REPOSITORY when the runner does not provide it.
func RepositoryFullName(workspace string) (string, error) {
	md, err := CollectRepositoryMetadata(workspace)
	if err != nil {
		return "", err
	}
	if md.RemoteURL == nil {
		return "", ErrNoOriginRemote
	}
	if md.RepositoryFullName == nil {
		return "", fmt.Errorf("%w: %s", ErrNotGitHub, *md.RemoteURL)
	}
	return *md.RepositoryFullName, nil
}

// HasCommit reports whether sha is present in the local object store. Shallow
// checkouts often miss the base of a scan range.
func HasCommit(workspace, sha string) (bool, error) {
	root, err := findGitRepositoryPath(workspace)
	if err != nil {
		return false, err
	}
	repo, err := git.PlainOpen(root)
	if err != nil {
		return false, fmt.Errorf("failed to open repository: %w", err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(sha))
	if err != nil {
		return false, nil
	}
	if _, err := repo.CommitObject(*hash); err != nil {
		return false, nil
	}
	return true, nil
}
